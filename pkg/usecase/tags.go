package usecase

import "github.com/m-mizutani/backporter/pkg/domain/types"

// ExtractTargets returns release targets named by labels in first-seen order.
// Labels that are not version tags are ignored and duplicates collapse to one target.
func ExtractTargets(labels []string) []types.TargetVersion {
	seen := make(map[types.TargetVersion]struct{}, len(labels))
	var targets []types.TargetVersion

	for _, label := range labels {
		version, ok := types.ParseTargetLabel(label)
		if !ok {
			continue
		}
		if _, dup := seen[version]; dup {
			continue
		}
		seen[version] = struct{}{}
		targets = append(targets, version)
	}

	return targets
}
