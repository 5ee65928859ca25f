package screening

// EngineVersion identifies the screening engine release recorded in run metadata.
const EngineVersion = "1.4.0"

// MatchThresholdVersion identifies the similarity threshold policy in effect.
// Bump when StrongSimilarityThreshold or PossibleSimilarityThreshold change so
// historical runs remain attributable to the policy that produced them.
const MatchThresholdVersion = "2025-07"
