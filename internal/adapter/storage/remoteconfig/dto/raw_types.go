package remoteconfig_dto

// FlagsDocumentRaw is the remote-config document as served by the flag endpoint.
type FlagsDocumentRaw struct {
	// Chains maps a chain key (decimal id, hex id or interface name) to its override.
	Chains    map[string]bool `json:"chains"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
}
