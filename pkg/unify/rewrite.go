package unify

import (
	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
)

// rewrite collects the changes of one step. Nothing touches the graph until
// apply, so a failed lookup leaves the graph as it was.
type rewrite struct {
	puts    []put
	renames map[schema.Ident]schema.Ident
	deletes []schema.Ident
}

type put struct {
	id   schema.Ident
	node *schema.MetaType
}

// stats summarizes an applied rewrite.
type stats struct {
	puts      int
	rewritten int
	deleted   int
}

func newRewrite() *rewrite {
	return &rewrite{renames: make(map[schema.Ident]schema.Ident)}
}

func (rw *rewrite) set(id schema.Ident, node *schema.MetaType) {
	rw.puts = append(rw.puts, put{id: id, node: node})
}

// collapse re-keys from onto to: references are rewritten and from is
// deleted.
func (rw *rewrite) collapse(from, to schema.Ident) {
	if from == to {
		return
	}
	rw.renames[from] = to
	rw.deletes = append(rw.deletes, from)
}

// apply inserts, then rewrites references across the whole graph, then
// deletes.
func (rw *rewrite) apply(g *schema.Graph) stats {
	var st stats
	for _, p := range rw.puts {
		g.Set(p.id, p.node)
		st.puts++
	}
	st.rewritten = g.RenameReferences(rw.renames)
	for _, id := range rw.deletes {
		if g.Has(id) {
			g.Delete(id)
			st.deleted++
		}
	}
	return st
}
