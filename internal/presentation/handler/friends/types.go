package friends

// friendResponse represents one friend entry
type friendResponse struct {
	UID         string `json:"uid"`         // User identifier
	DisplayName string `json:"displayName"` // Display name
	Avatar      string `json:"avatar"`      // Avatar URL, defaulted when the profile has none
}

// friendsResponse wraps the list with the pending-request badge count
type friendsResponse struct {
	Friends         []friendResponse `json:"friends"`
	PendingRequests int64            `json:"pendingRequests"`
}
