package protocol

// Message type discriminators. The value carried in the body's "type" field
// is the only way a payload kind is recognized on the wire.
const (
	TypeInit       = "init"
	TypeInitOK     = "init_ok"
	TypeEcho       = "echo"
	TypeEchoOK     = "echo_ok"
	TypeGenerate   = "generate"
	TypeGenerateOK = "generate_ok"
)

// Payload is one kind-specific message content. The set of implementations
// is closed: dispatch sites type-switch over every variant and treat
// anything else as an error, so a new kind cannot be added without touching
// each of them.
type Payload interface {
	Kind() string
}

// Init announces the receiving node's identity and the full cluster
// membership list.
type Init struct {
	NodeID  string   `json:"node_id"`
	NodeIDs []string `json:"node_ids"`
}

func (Init) Kind() string { return TypeInit }

// InitOK acknowledges an Init. It carries no fields.
type InitOK struct{}

func (InitOK) Kind() string { return TypeInitOK }

// Echo asks the receiver to reflect the string back unchanged.
type Echo struct {
	Echo string `json:"echo"`
}

func (Echo) Kind() string { return TypeEcho }

// EchoOK carries the reflected string of the Echo it answers.
type EchoOK struct {
	Echo string `json:"echo"`
}

func (EchoOK) Kind() string { return TypeEchoOK }

// Generate requests a fresh globally-unique identifier.
type Generate struct{}

func (Generate) Kind() string { return TypeGenerate }

// GenerateOK carries the generated identifier.
type GenerateOK struct {
	ID string `json:"id"`
}

func (GenerateOK) Kind() string { return TypeGenerateOK }
