package scoring_test

import (
	"math"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/model/config"
	"github.com/enishi-chat/enishi/pkg/domain/types"
	"github.com/enishi-chat/enishi/pkg/service/scoring"
)

func TestScoreSubstring(t *testing.T) {
	s := scoring.New(nil)

	gt.Number(t, s.Score("英雄联盟", "英雄联盟手游", nil, nil)).Equal(scoring.RuleScore)
	gt.Number(t, s.Score("LOL", "lol", nil, nil)).Equal(scoring.RuleScore)

	// Containment works in both directions
	gt.Number(t, s.Score("game", "games", nil, nil)).
		Equal(s.Score("games", "game", nil, nil))
}

func TestScoreRuleTable(t *testing.T) {
	s := scoring.New(nil)

	// Key to list member
	gt.Number(t, s.Score("英雄联盟", "撸啊撸", nil, nil)).Equal(scoring.RuleScore)
	// Two members of the same list
	gt.Number(t, s.Score("交友", "唠嗑", nil, nil)).Equal(scoring.RuleScore)
	// Unrelated topics without vectors are unscoreable
	gt.Number(t, s.Score("chess", "cooking", nil, nil)).Equal(0)
}

func TestScoreRuleBeatsVector(t *testing.T) {
	s := scoring.New(nil)

	// Orthogonal vectors would score 0, but the rule hit wins
	a := []float32{1, 0}
	b := []float32{0, 1}
	gt.Number(t, s.Score("原神", "米哈游", a, b)).Equal(scoring.RuleScore)
}

func TestScoreCosine(t *testing.T) {
	s := scoring.New(nil)

	a := []float32{1, 2, 3}
	b := []float32{2, 4, 6}
	got := s.Score("chess", "checkers", a, b)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Expected parallel vectors to score 1.0, got %f", got)
	}

	// One missing vector is unscoreable, not an error
	gt.Number(t, s.Score("chess", "checkers", a, nil)).Equal(0)
}

func TestCosineSimilarityEdgeCases(t *testing.T) {
	gt.Number(t, scoring.CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})).Equal(0)
	gt.Number(t, scoring.CosineSimilarity([]float32{0, 0}, []float32{1, 2})).Equal(0)
	gt.Number(t, scoring.CosineSimilarity(nil, nil)).Equal(0)
}

func TestScoreSymmetry(t *testing.T) {
	s := scoring.New(nil)

	a := []float32{0.5, 0.1, 0.9}
	b := []float32{0.2, 0.8, 0.4}
	gt.Number(t, s.Score("topic-a", "topic-b", a, b)).
		Equal(s.Score("topic-b", "topic-a", b, a))
}

func TestScoreCustomTable(t *testing.T) {
	table := config.NewRuleTable(map[string][]string{
		"Sports": {"Football", "Tennis"},
	})
	s := scoring.New(table)

	// Lowercasing is applied on both construction and lookup
	gt.Number(t, s.Score("SPORTS", "tennis", nil, nil)).Equal(scoring.RuleScore)
	gt.Number(t, s.Score("football", "tennis", nil, nil)).Equal(scoring.RuleScore)
	gt.Number(t, s.Score("sports", "chess", nil, nil)).Equal(0)
}

func TestBestMatchThreshold(t *testing.T) {
	s := scoring.New(nil)

	reqs := []*model.SearchRequest{
		newRequest("u1", "cooking", nil),
		newRequest("u2", "英雄联盟", nil),
	}

	cand, score := s.BestMatch(reqs, "lol", nil, "searcher", 0.5)
	gt.Value(t, cand).NotNil()
	gt.Value(t, cand.Identity).Equal(types.IdentityID("u2"))
	gt.Number(t, score).Equal(scoring.RuleScore)

	// Nothing reaches the threshold
	cand, _ = s.BestMatch(reqs, "astronomy", nil, "searcher", 0.5)
	gt.Value(t, cand).Nil()
}

func TestBestMatchExcludesSelf(t *testing.T) {
	s := scoring.New(nil)

	reqs := []*model.SearchRequest{
		newRequest("searcher", "lol", nil),
	}

	cand, _ := s.BestMatch(reqs, "lol", nil, "searcher", 0)
	gt.Value(t, cand).Nil()
}

func TestBestMatchFIFOTieBreak(t *testing.T) {
	s := scoring.New(nil)

	// Both candidates hit the rule score; the earlier enqueue wins
	first := newRequest("early", "英雄联盟", nil)
	second := newRequest("late", "lol", nil)

	cand, _ := s.BestMatch([]*model.SearchRequest{first, second}, "lol", nil, "searcher", 0)
	gt.Value(t, cand).NotNil()
	gt.Value(t, cand.Identity).Equal(types.IdentityID("early"))
}

func TestBestHistorical(t *testing.T) {
	s := scoring.New(nil)

	entries := []*model.HistoryEntry{
		{Topic: "cooking", RecordedAt: time.Now()},
		{Topic: "原神", RecordedAt: time.Now()},
	}

	entry, score, ok := s.BestHistorical("米哈游", nil, entries, 0.6)
	gt.Bool(t, ok).True()
	gt.String(t, entry.Topic).Equal("原神")
	gt.Number(t, score).Equal(scoring.RuleScore)

	_, _, ok = s.BestHistorical("astronomy", nil, entries, 0.6)
	gt.Bool(t, ok).False()
}

func newRequest(id types.IdentityID, topic string, vec []float32) *model.SearchRequest {
	return model.NewSearchRequest(id, topic, vec)
}
