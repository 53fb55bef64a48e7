/*
Package server implements msgpack IPC for compound splitting.

The server reads msgpack requests from stdin and writes one msgpack response per request to
stdout. Logs never go to stdout.

# IPC

On start the server sends

	{"status": "ready", "morphemes": 48211}

Split requests carry an ID and the word; "split" is the default action:

	{"id": "req_001", "w": "Aktionsplan"}

and are answered with the notation, the parts, the number of candidates ranked, the ranker
used and the time taken in microseconds:

	{"id": "req_001", "n": "Aktion(s)+plan", "p": [{"m": "Aktion", "l": "s"}, {"m": "plan"}], "c": 2, "r": "baseline", "t": 41}

Other actions:

	{"id": "t1", "action": "tree", "w": "Aktionsplan"}    -> TreeResponse
	{"id": "b1", "action": "batch", "ws": ["Haustür", "Kindergarten"]} -> BatchResponse
	{"id": "h1", "action": "health"}                       -> StatusResponse

Failures are reported as {"id": ..., "e": message, "c": code} with code 400 for bad requests,
503 when the frequency ranker is unavailable and 500 otherwise.
*/
package server

// Actions understood by the server.
const (
	ActionSplit  = "split"
	ActionTree   = "tree"
	ActionBatch  = "batch"
	ActionHealth = "health"
)

// Request is any client message.
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"action,omitempty"`
	Word   string   `msgpack:"w,omitempty"`
	Words  []string `msgpack:"ws,omitempty"`
}

// Part is one morph of a split.
type Part struct {
	Morph string `msgpack:"m"`
	Link  string `msgpack:"l,omitempty"`
}

// SplitResponse - best segmentation of one word
type SplitResponse struct {
	ID         string `msgpack:"id,omitempty"`
	Notation   string `msgpack:"n"`
	Parts      []Part `msgpack:"p"`
	Candidates int    `msgpack:"c"`
	Ranker     string `msgpack:"r"`
	Cached     bool   `msgpack:"k,omitempty"`
	TimeTaken  int64  `msgpack:"t"`
}

// TreeNode is one node of a segmentation tree in pre-order.
type TreeNode struct {
	ID       int    `msgpack:"i"`
	Parent   int    `msgpack:"u"`
	Depth    int    `msgpack:"d"`
	Notation string `msgpack:"n"`
	Complete bool   `msgpack:"c"`
	Leaf     bool   `msgpack:"f"`
}

// TreeResponse - full segmentation tree plus the selected notation
type TreeResponse struct {
	ID        string     `msgpack:"id"`
	Nodes     []TreeNode `msgpack:"nodes"`
	Best      string     `msgpack:"b"`
	TimeTaken int64      `msgpack:"t"`
}

// BatchResponse - results in request order
type BatchResponse struct {
	ID        string          `msgpack:"id"`
	Results   []SplitResponse `msgpack:"r"`
	TimeTaken int64           `msgpack:"t"`
}

// StatusResponse answers health checks and announces readiness.
type StatusResponse struct {
	ID        string `msgpack:"id,omitempty"`
	Status    string `msgpack:"status"`
	Morphemes int    `msgpack:"morphemes,omitempty"`
	Requests  int64  `msgpack:"requests,omitempty"`
}

// ErrorResponse holds basic error information
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
