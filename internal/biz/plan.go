package biz

import (
	"time"

	"Authormity/internal/data"
)

// Unlimited is the limit reported for tiers without a monthly cap.
const Unlimited = -1

// Feature is a plan-gated capability.
type Feature string

// Plan-gated features.
const (
	FeatureVoiceProfile     Feature = "voiceProfile"
	FeatureCarousel         Feature = "carousel"
	FeatureDirectPosting    Feature = "directPosting"
	FeatureRepurpose        Feature = "repurpose"
	FeatureCommentGenerator Feature = "commentGenerator"
	FeatureGhostwriterMode  Feature = "ghostwriterMode"
	FeatureAnalytics        Feature = "analytics"
	FeatureScheduling       Feature = "scheduling"
	FeatureThreadWriter     Feature = "threadWriter"
	FeatureHookRater        Feature = "hookRater"
	FeatureHumanizer        Feature = "humanizer"
	FeatureWeeklyInsights   Feature = "weeklyInsights"
	FeatureClientProfiles   Feature = "clientProfiles"
	FeatureTeamWorkspace    Feature = "teamWorkspace"
)

type tierSet map[data.Plan]struct{}

func tiers(plans ...data.Plan) tierSet {
	s := make(tierSet, len(plans))
	for _, p := range plans {
		s[p] = struct{}{}
	}
	return s
}

var (
	paidTiers = tiers(data.PlanPro, data.PlanTeam)

	// featureOrder 保持接口输出顺序稳定
	featureOrder = []Feature{
		FeatureVoiceProfile,
		FeatureCarousel,
		FeatureDirectPosting,
		FeatureRepurpose,
		FeatureCommentGenerator,
		FeatureGhostwriterMode,
		FeatureAnalytics,
		FeatureScheduling,
		FeatureThreadWriter,
		FeatureHookRater,
		FeatureHumanizer,
		FeatureWeeklyInsights,
		FeatureClientProfiles,
		FeatureTeamWorkspace,
	}

	featureTiers = map[Feature]tierSet{
		FeatureVoiceProfile:     paidTiers,
		FeatureCarousel:         paidTiers,
		FeatureDirectPosting:    paidTiers,
		FeatureRepurpose:        paidTiers,
		FeatureCommentGenerator: paidTiers,
		FeatureGhostwriterMode:  paidTiers,
		FeatureAnalytics:        paidTiers,
		FeatureScheduling:       paidTiers,
		FeatureThreadWriter:     paidTiers,
		FeatureHookRater:        paidTiers,
		FeatureHumanizer:        paidTiers,
		FeatureWeeklyInsights:   paidTiers,
		FeatureClientProfiles:   paidTiers,
		FeatureTeamWorkspace:    tiers(data.PlanTeam),
	}

	monthlyLimits = map[data.Plan]int{
		data.PlanFree: 10,
		data.PlanPro:  Unlimited,
		data.PlanTeam: Unlimited,
	}
)

// NormalizePlan maps unknown tier names to free.
func NormalizePlan(p data.Plan) data.Plan {
	if _, ok := monthlyLimits[p]; ok {
		return p
	}
	return data.PlanFree
}

// CanUseFeature reports whether plan unlocks feature.
func CanUseFeature(plan data.Plan, feature Feature) bool {
	set, ok := featureTiers[feature]
	if !ok {
		return false
	}
	_, ok = set[NormalizePlan(plan)]
	return ok
}

// FeaturesFor lists the features plan unlocks.
func FeaturesFor(plan data.Plan) []Feature {
	out := make([]Feature, 0, len(featureOrder))
	for _, f := range featureOrder {
		if CanUseFeature(plan, f) {
			out = append(out, f)
		}
	}
	return out
}

// MonthlyLimit returns the generation allowance of plan, or Unlimited.
func MonthlyLimit(plan data.Plan) int {
	return monthlyLimits[NormalizePlan(plan)]
}

// NextResetAt returns the first instant of the calendar month after now, in UTC.
func NextResetAt(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}
