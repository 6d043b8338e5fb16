package models

// Server, the part of a platform server the add-on needs.
// Fetched from the platform on demand; never stored locally.
type Server struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// IsOwner, reports whether userID is the server's owner.
func (s *Server) IsOwner(userID string) bool {
	return s.OwnerID != "" && s.OwnerID == userID
}
