// Flixflow - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flixflow

package recommend

// maxRatingScale is the top of the 0.5-5.0 rating scale used by the
// collaborative and statistical engines.
const maxRatingScale = 5.0

// SelectHero takes rank 1 of a single source's candidate list and attaches a
// normalized confidence value.
//
// Confidence depends on the source's score scale: predicted ratings and
// weighted ratings are divided by 5.0 and clamped to 1.0, while content
// similarity scores are already bounded in [0, 1] and pass through directly.
//
// An empty list yields a nil hero. Callers must treat that as "omit the hero
// section", never as an error.
func SelectHero(candidates []ScoredCandidate) *Hero {
	if len(candidates) == 0 {
		return nil
	}

	top := candidates[0]

	var confidence float64
	switch top.Source {
	case SourceContent:
		confidence = top.RawScore
	default:
		confidence = top.RawScore / maxRatingScale
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	return &Hero{
		CombinedCandidate: CombinedCandidate{
			MovieID: top.MovieID,
			TmdbID:  top.TmdbID,
			Title:   top.Title,
			Genres:  top.Genres,
			Score:   top.RawScore,
			Sources: []Source{top.Source},
		},
		Confidence: confidence,
	}
}
