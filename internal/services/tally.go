package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"allvoter/internal/models"
	"allvoter/internal/utils"

	"gorm.io/gorm"
)

const (
	voteCountsCacheKey = "tally:vote_counts"
	voteCountsCacheTTL = 5 * time.Second
)

// TallyService produces ranked vote reports. Pure reads; the cache in front
// of the global tally is advisory only.
type TallyService struct {
	db      *gorm.DB
	timeout time.Duration
	cache   *utils.Cache
}

func NewTallyService(gdb *gorm.DB, timeout time.Duration, cache *utils.Cache) *TallyService {
	return &TallyService{db: gdb, timeout: timeout, cache: cache}
}

// PartyCount is one row of the global tally.
type PartyCount struct {
	Party string `json:"party"`
	Count uint   `json:"count"`
}

// CandidateResult is one row of an election's ranked results.
type CandidateResult struct {
	CandidateID uint    `json:"candidateId"`
	Name        string  `json:"name"`
	Party       string  `json:"party"`
	Age         int     `json:"age"`
	Votes       uint    `json:"votes"`
	Percentage  float64 `json:"percentage"`
}

// ElectionSummary is the header block of a results report.
type ElectionSummary struct {
	ID        uint                  `json:"id"`
	Title     string                `json:"title"`
	Status    models.ElectionStatus `json:"status"`
	StartDate time.Time             `json:"startDate"`
	EndDate   time.Time             `json:"endDate"`
}

// ElectionResults is the full report for one election.
type ElectionResults struct {
	Election   ElectionSummary   `json:"election"`
	TotalVotes uint              `json:"totalVotes"`
	Results    []CandidateResult `json:"results"`
}

// VoteCounts returns the global tally over all candidates, ordered by votes
// descending with candidate ID as the stable tie-break.
func (s *TallyService) VoteCounts(ctx context.Context) ([]PartyCount, error) {
	if cached := s.cache.Get(voteCountsCacheKey); cached != nil {
		if counts, ok := cached.([]PartyCount); ok {
			return counts, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var candidates []models.Candidate
	if err := s.db.WithContext(ctx).
		Order("vote_count DESC, id ASC").
		Find(&candidates).Error; err != nil {
		return nil, storageErr(err)
	}

	counts := make([]PartyCount, 0, len(candidates))
	for _, c := range candidates {
		counts = append(counts, PartyCount{Party: c.Party, Count: c.VoteCount})
	}

	s.cache.Set(voteCountsCacheKey, counts, voteCountsCacheTTL)
	return counts, nil
}

// ElectionResults aggregates the counters of one election's candidate
// subset: ranked descending by votes (candidate ID ascending on ties), each
// row annotated with its share of the election total. A zero total yields
// 0% everywhere rather than a division error.
func (s *TallyService) ElectionResults(ctx context.Context, electionID uint) (*ElectionResults, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var election models.Election
	if err := s.db.WithContext(ctx).
		Preload("Candidates").
		First(&election, electionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrElectionNotFound
		}
		return nil, storageErr(err)
	}

	var total uint
	for _, c := range election.Candidates {
		total += c.VoteCount
	}

	results := make([]CandidateResult, 0, len(election.Candidates))
	for _, c := range election.Candidates {
		results = append(results, CandidateResult{
			CandidateID: c.ID,
			Name:        c.Name,
			Party:       c.Party,
			Age:         c.Age,
			Votes:       c.VoteCount,
			Percentage:  percentage(c.VoteCount, total),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Votes != results[j].Votes {
			return results[i].Votes > results[j].Votes
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	return &ElectionResults{
		Election: ElectionSummary{
			ID:        election.ID,
			Title:     election.Title,
			Status:    election.Status,
			StartDate: election.StartDate,
			EndDate:   election.EndDate,
		},
		TotalVotes: total,
		Results:    results,
	}, nil
}

// percentage is votes/total*100 rounded to two decimals, 0 when total is 0.
func percentage(votes, total uint) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(votes)/float64(total)*100*100) / 100
}
