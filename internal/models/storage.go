package models

// StorageEntry is the measured footprint of one persisted key.
type StorageEntry struct {
	Key string  `json:"key"`
	KB  float64 `json:"kb"`
}

// StorageUsage is a point-in-time snapshot of how much of the storage quota
// the app's namespace is consuming.
type StorageUsage struct {
	TotalKB      float64        `json:"totalKb"`
	QuotaKB      int            `json:"quotaKb"`
	WarnKB       int            `json:"warnKb"`
	NearCapacity bool           `json:"nearCapacity"`
	Entries      []StorageEntry `json:"entries"`
}
