// Package domain contains shared definitions.
package domain

// Connection represents the values used to open a Splunk session. Every field is passed to
// the Splunk client unchanged.
type Connection struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	Owner    string `json:"owner"`
	App      string `json:"app"`
	Sharing  string `json:"sharing"`
}
