package entity

// StatusParams is the payload of the custom oxhost/status notification that
// drives the editor's visible status indicator for one backend.
type StatusParams struct {
	Backend string `json:"backend"`
	Enabled bool   `json:"enabled"`
	Running bool   `json:"running"`
}
