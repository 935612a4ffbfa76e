// Package cwmp is the typed CWMP (TR-069) RPC layer.
//
// It translates between SOAP envelopes on the wire and a small domain
// model: an Envelope carries a list of Header values and exactly one Body,
// which is a Request, a Response, a *Fault or NoContent.
//
// # Codec
//
// A Codec decodes and encodes envelopes against the canonical schema graph
// built by package unify. The graph decides which header and body elements
// are recognized, which members each RPC element has, and the item type of
// every SOAP-encoded array:
//
//	codec, err := cwmp.NewCodec(catalog, cwmp.DefaultOptions())
//	env, err := codec.Decode(data)
//	out, err := codec.Encode(&cwmp.Envelope{
//	    Headers: []cwmp.Header{&cwmp.ID{MustUnderstand: true, Value: cwmp.NewID()}},
//	    Body:    &cwmp.GetRPCMethods{},
//	})
//
// Decoding keeps recognized headers and drops others. The first recognized
// body element wins; a body without one decodes as NoContent. Encoding
// writes mustUnderstand as "1" or "0", tags parameter values with xsi:type
// and declares every array's length with soapenc:arrayType. The encoder
// checks each declared length against the emitted items before returning.
//
// A Codec is safe for concurrent use. When its schema.Source swaps in a new
// graph, later calls use it.
//
// # Parameter paths
//
// ClassifyPath sorts parameter paths into full names, partial paths ending
// in "." and wildcard paths containing "*".
package cwmp
