package services

import "encoding/json"

// Cache invalidates cached page payloads after mutations. Implemented by
// the redis client; nil-safe wrappers below let tests run without redis.
type Cache interface {
	RevalidatePath(path string) error
}

// Notifier delivers short text messages to clients. Implemented by the
// SMS gateway client.
type Notifier interface {
	Send(phone, message string) error
}

func revalidate(cache Cache, paths ...string) {
	if cache == nil {
		return
	}
	for _, path := range paths {
		// Best-effort: a cold cache is always correct.
		cache.RevalidatePath(path)
	}
}

// NullableID distinguishes "field absent" from "explicitly null" in JSON
// payloads. An explicit null clears the assignment and still propagates
// to child rows.
type NullableID struct {
	Set   bool
	Value *uint
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

func (n NullableID) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
