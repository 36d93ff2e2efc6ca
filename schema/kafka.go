package schema

const (
	EventRegistered = "registered"
	EventRecordSet  = "record_set"
)

type DomainEvent struct {
	Id        string `json:"id"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Record    string `json:"record,omitempty"`
	Owner     string `json:"owner"`
	TxHash    string `json:"txHash"`
	Timestamp int64  `json:"timestamp"`
}
