// Package loader builds graphs from HCL documents.
//
// A document is a flat list of node blocks. Each node names its kind as
// "module/node", wires inputs to other nodes' outputs with connect blocks,
// and assigns default values to unwired inputs with default blocks. Edges
// are addressed positionally, matching the signature declaration order:
//
//	node "producer" {
//	  kind = "math/add"
//	  default "0" { value = 5 }
//	  default "1" { value = 2 }
//	}
//
//	node "consumer" {
//	  kind = "string/from_number"
//	  connect "0" { node = "producer", output = 0 }
//	}
//
// ParseData turns one document into a finalized graph; Factory adds a
// cache keyed by filename on top of a host-supplied read callback.
package loader
