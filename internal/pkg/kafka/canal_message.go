package kafka

// CanalMessage is the JSON payload Canal pushes to Kafka for each binlog
// event.
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`
	SQL      string   `json:"sql"`

	// Data holds the rows after the change.
	Data []map[string]interface{} `json:"data"`

	// Old holds the rows before the change.
	Old []map[string]interface{} `json:"old"`

	SqlType   map[string]int    `json:"sqlType"`
	MysqlType map[string]string `json:"mysqlType"`
}
