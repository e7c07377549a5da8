package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StoreMeta is the free-form JSON blob attached to a store_info row. Scraper
// imports stuff arbitrary keys in here; the fields below are the ones this
// service reads when building store descriptors.
type StoreMeta struct {
	StoreName    string `json:"store_name,omitempty"`
	Platform     string `json:"platform,omitempty"`
	PlatformCode string `json:"platform_code,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Value marshals the blob into JSON for Postgres.
func (m StoreMeta) Value() (driver.Value, error) {
	merged := map[string]json.RawMessage{}
	for k, v := range m.Extra {
		merged[k] = v
	}
	put := func(key, val string) error {
		if val == "" {
			return nil
		}
		raw, err := json.Marshal(val)
		if err != nil {
			return err
		}
		merged[key] = raw
		return nil
	}
	if err := put("store_name", m.StoreName); err != nil {
		return nil, err
	}
	if err := put("platform", m.Platform); err != nil {
		return nil, err
	}
	if err := put("platform_code", m.PlatformCode); err != nil {
		return nil, err
	}
	return json.Marshal(merged)
}

// Scan decodes JSONB into the blob, keeping unknown keys in Extra.
func (m *StoreMeta) Scan(value interface{}) error {
	if value == nil {
		*m = StoreMeta{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("store meta: unsupported scan type %T", value)
	}

	all := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &all); err != nil {
		return err
	}

	out := StoreMeta{Extra: map[string]json.RawMessage{}}
	take := func(key string, dst *string) {
		if v, ok := all[key]; ok {
			_ = json.Unmarshal(v, dst)
			delete(all, key)
		}
	}
	take("store_name", &out.StoreName)
	take("platform", &out.Platform)
	take("platform_code", &out.PlatformCode)
	for k, v := range all {
		out.Extra[k] = v
	}
	if len(out.Extra) == 0 {
		out.Extra = nil
	}
	*m = out
	return nil
}
