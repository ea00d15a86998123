package tournament

import (
	"sort"

	"go.creack.net/melee/vm"
)

// ScorePolicy holds the point values battles convert into. The numbers
// are domain policy, not structure; callers can override any of them.
type ScorePolicy struct {
	WinPoints      float64 // Clean single-survivor win.
	SurvivalPoints float64 // Split evenly among joint survivors at the cycle cap.
	DrawPoints     float64 // Participation credit when everyone dies.
	RankPoints     float64 // Per elimination-rank position, later deaths rank higher.
}

var DefaultScorePolicy = ScorePolicy{
	WinPoints:      100,
	SurvivalPoints: 100,
	DrawPoints:     5,
	RankPoints:     10,
}

// Row is the accumulated standing of one warrior.
type Row struct {
	Warrior string
	Team    string
	Score   float64
	Wins    int
	Losses  int
	Draws   int
}

// TeamRow is the aggregated standing of one team: the member score sum
// divided by team size, so differently-sized teams stay comparable.
type TeamRow struct {
	Team    string
	Members int
	Score   float64
}

// delta is one battle's contribution to the standings. Computed by the
// worker that ran the battle, applied whole by the single accumulator,
// so scores come out identical for any completion order.
type delta struct {
	rows map[string]Row // Keyed by warrior name.
}

// battleDelta converts one battle result into score contributions.
// Zombies influenced the battle but contribute no rows of their own.
func battleDelta(policy ScorePolicy, res vm.Result) delta {
	d := delta{rows: map[string]Row{}}
	add := func(w *vm.Warrior, score float64, wins, losses, draws int) {
		if w.Zombie {
			return
		}
		r := d.rows[w.Name]
		r.Warrior, r.Team = w.Name, w.Team
		r.Score += score
		r.Wins += wins
		r.Losses += losses
		r.Draws += draws
		d.rows[w.Name] = r
	}

	// Elimination order yields a ranking: earlier eliminated, lower
	// rank. Survivors sit above every eliminated warrior. Zombies are
	// skipped so they don't shift real ranks. A draw awards no rank
	// credit, the participation points below are all it pays.
	if res.Outcome != vm.OutcomeDraw {
		rank := 0
		for _, w := range res.Eliminated {
			if w.Zombie {
				continue
			}
			add(w, policy.RankPoints*float64(rank), 0, 0, 0)
			rank++
		}
		for _, w := range res.Survivors {
			if w.Zombie {
				continue
			}
			add(w, policy.RankPoints*float64(rank), 0, 0, 0)
		}
	}
	survivors := 0
	for _, w := range res.Survivors {
		if !w.Zombie {
			survivors++
		}
	}

	switch res.Outcome {
	case vm.OutcomeSingleSurvivor:
		for _, w := range res.Survivors {
			add(w, policy.WinPoints, 1, 0, 0)
		}
		for _, w := range res.Eliminated {
			add(w, 0, 0, 1, 0)
		}
	case vm.OutcomeCycleCap:
		// Joint survivors share reduced points.
		for _, w := range res.Survivors {
			if survivors > 0 {
				add(w, policy.SurvivalPoints/float64(survivors), 0, 0, 1)
			}
		}
		for _, w := range res.Eliminated {
			add(w, 0, 0, 1, 0)
		}
	case vm.OutcomeDraw:
		for _, w := range res.Eliminated {
			add(w, policy.DrawPoints, 0, 0, 1)
		}
	}
	return d
}

// Standings is the scoreboard: per-warrior accumulated rows plus team
// aggregation. Mutated only by the accumulator's apply step.
type Standings struct {
	rows map[string]*Row
}

func NewStandings() *Standings {
	return &Standings{rows: map[string]*Row{}}
}

func (s *Standings) apply(d delta) {
	for name, r := range d.rows {
		cur, ok := s.rows[name]
		if !ok {
			cur = &Row{Warrior: r.Warrior, Team: r.Team}
			s.rows[name] = cur
		}
		cur.Score += r.Score
		cur.Wins += r.Wins
		cur.Losses += r.Losses
		cur.Draws += r.Draws
	}
}

// Rows returns the per-warrior standings ordered by descending score,
// ties broken by name for reproducible output.
func (s *Standings) Rows() []Row {
	out := make([]Row, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Warrior < out[j].Warrior
	})
	return out
}

// Teams aggregates member rows into per-team standings, same ordering
// rule as Rows.
func (s *Standings) Teams() []TeamRow {
	byTeam := map[string]*TeamRow{}
	for _, r := range s.rows {
		if r.Team == "" {
			continue
		}
		tr, ok := byTeam[r.Team]
		if !ok {
			tr = &TeamRow{Team: r.Team}
			byTeam[r.Team] = tr
		}
		tr.Members++
		tr.Score += r.Score
	}
	out := make([]TeamRow, 0, len(byTeam))
	for _, tr := range byTeam {
		tr.Score /= float64(tr.Members)
		out = append(out, *tr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Team < out[j].Team
	})
	return out
}
