package stores

import (
	"sort"

	"github.com/replyhub/replyhub-backend/pkg/db/models"
)

// StoreDescriptor is the display-ready merged metadata for one store+platform
// pairing. Identity is the (store_code, platform, platform_code) triple.
type StoreDescriptor struct {
	StoreCode    string `json:"store_code"`
	StoreName    string `json:"store_name"`
	Platform     string `json:"platform"`
	PlatformCode string `json:"platform_code"`
}

// MergeDescriptors combines the two independently-authoritative metadata
// sources. Reply rules win per store_code: when one or more rule rows exist
// for a store, each becomes its own descriptor and the store_info row is
// ignored for that store. Output is deduplicated by the identity triple and
// sorted ascending by store_code then platform.
func MergeDescriptors(infos []models.StoreInfo, rules []models.ReplyRule) []StoreDescriptor {
	byStore := make(map[string][]models.ReplyRule, len(rules))
	for _, rule := range rules {
		byStore[rule.StoreCode] = append(byStore[rule.StoreCode], rule)
	}

	seen := make(map[[3]string]struct{})
	out := make([]StoreDescriptor, 0, len(infos)+len(rules))

	add := func(d StoreDescriptor) {
		key := [3]string{d.StoreCode, d.Platform, d.PlatformCode}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}

	for _, ruleRows := range byStore {
		for _, rule := range ruleRows {
			add(StoreDescriptor{
				StoreCode:    rule.StoreCode,
				StoreName:    rule.StoreName,
				Platform:     string(rule.Platform),
				PlatformCode: rule.PlatformCode,
			})
		}
	}

	for _, info := range infos {
		if _, hasRules := byStore[info.StoreCode]; hasRules {
			continue
		}
		name := info.StoreName
		if info.Meta.StoreName != "" {
			name = info.Meta.StoreName
		}
		add(StoreDescriptor{
			StoreCode:    info.StoreCode,
			StoreName:    name,
			Platform:     info.Meta.Platform,
			PlatformCode: info.Meta.PlatformCode,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StoreCode != out[j].StoreCode {
			return out[i].StoreCode < out[j].StoreCode
		}
		return out[i].Platform < out[j].Platform
	})

	return out
}
