package domain

// Client represents a connection to a Splunk instance
type Client struct {
	// Connection contains the values supplied for the connection
	Connection *Connection
	// Session is the Splunk session, nil until connected
	Session any
	// ServerVersion is the version reported by the instance once connected
	ServerVersion string
}
