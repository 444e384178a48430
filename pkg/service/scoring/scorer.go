package scoring

import (
	"math"
	"strings"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/model/config"
	"github.com/enishi-chat/enishi/pkg/domain/types"
)

// RuleScore is the fixed score of a substring or rule-table hit. It always
// wins over embedding similarity regardless of vector presence.
const RuleScore = 0.99

// Scorer computes pairwise topic compatibility. It is a pure component:
// embeddings are produced elsewhere and passed in.
type Scorer struct {
	rules *config.RuleTable
}

// New creates a scorer with the given rule table, falling back to the
// built-in table when nil
func New(rules *config.RuleTable) *Scorer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Scorer{rules: rules}
}

// Score rates the compatibility of two topics in [0,1]:
//  1. case-insensitive substring containment either direction → RuleScore
//  2. rule-table relation → RuleScore
//  3. both vectors present → cosine similarity
//  4. otherwise 0 (unscoreable, not an error)
func (s *Scorer) Score(topicA, topicB string, vecA, vecB []float32) float64 {
	a := strings.ToLower(topicA)
	b := strings.ToLower(topicB)

	if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
		return RuleScore
	}

	if s.rules.Related(a, b) {
		return RuleScore
	}

	if vecA != nil && vecB != nil {
		return CosineSimilarity(vecA, vecB)
	}

	return 0
}

// BestMatch returns the pooled request with the maximum score at or above
// threshold against the given topic, excluding the searcher itself. Ties
// are broken by enqueue order: the earliest request wins. Returns nil when
// no candidate qualifies.
func (s *Scorer) BestMatch(reqs []*model.SearchRequest, topic string, vec []float32, exclude types.IdentityID, threshold float64) (*model.SearchRequest, float64) {
	var best *model.SearchRequest
	bestScore := -1.0

	for _, req := range reqs {
		if req.Identity == exclude {
			continue
		}
		score := s.Score(topic, req.Topic, vec, req.Embedding)
		if score < threshold {
			continue
		}
		// Strict comparison keeps the earliest request on equal scores;
		// reqs arrive in enqueue order
		if score > bestScore {
			bestScore = score
			best = req
		}
	}

	if best == nil {
		return nil, 0
	}
	return best, bestScore
}

// BestHistorical returns the maximum score across a candidate's history
// entries, or false when no entry reaches threshold
func (s *Scorer) BestHistorical(topic string, vec []float32, entries []*model.HistoryEntry, threshold float64) (*model.HistoryEntry, float64, bool) {
	var best *model.HistoryEntry
	bestScore := -1.0

	for _, e := range entries {
		score := s.Score(topic, e.Topic, vec, e.Embedding)
		if score < threshold {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = e
		}
	}

	if best == nil {
		return nil, 0, false
	}
	return best, bestScore, true
}

// CosineSimilarity computes dot(a,b) / (|a|·|b|), defined as 0 when either
// norm is 0 or the dimensions differ
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}
