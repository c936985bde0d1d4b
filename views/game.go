package views

import (
	"time"

	"github.com/google/uuid"

	"github.com/AdamBeresnev/pong-tracker/internal/game"
	"github.com/AdamBeresnev/pong-tracker/internal/service"
)

type PlayerStatsView struct {
	Username   string  `json:"username"`
	ShotsTaken int     `json:"shots_taken"`
	CupsMade   int     `json:"cups_made"`
	OwnCups    int     `json:"own_cups"`
	DeathCups  int     `json:"death_cups"`
	ClutchCups int     `json:"clutch_cups"`
	Accuracy   float64 `json:"accuracy"`
	Score      float64 `json:"score"`
}

type TeamStatsView struct {
	TeamA map[string]PlayerStatsView `json:"teamA"`
	TeamB map[string]PlayerStatsView `json:"teamB"`
}

type GameState struct {
	ID                 uuid.UUID         `json:"id"`
	Mode               game.Mode         `json:"gamemode"`
	TeamSize           int               `json:"teamsize"`
	Status             game.Status       `json:"status"`
	TeamAName          string            `json:"teamA_name"`
	TeamBName          string            `json:"teamB_name"`
	TeamARackStatus    game.RackStatus   `json:"teamA_rack_status"`
	TeamBRackStatus    game.RackStatus   `json:"teamB_rack_status"`
	TeamACupsMade      int               `json:"teamA_cups_made"`
	TeamBCupsMade      int               `json:"teamB_cups_made"`
	TeamACupsRemaining int               `json:"teamA_cups_remaining"`
	TeamBCupsRemaining int               `json:"teamB_cups_remaining"`
	Cups               map[string]string `json:"cups"`
	PlayerStats        TeamStatsView     `json:"player_stats"`
	Winner             *string           `json:"winner"`
}

type RoundResult struct {
	GameState
	RoundNumber int               `json:"round_number"`
	RoundCups   map[string]string `json:"round_cups"`
	DeathCups   []string          `json:"deathcups"`
}

type RoundView struct {
	RoundNumber int               `json:"round_number"`
	Cups        map[string]string `json:"cups"`
	RackStatusA game.RackStatus   `json:"rack_status_a"`
	RackStatusB game.RackStatus   `json:"rack_status_b"`
	DeathCups   []string          `json:"death_cups"`
	CreatedAt   time.Time         `json:"created_at"`
}

type GameListItem struct {
	ID        uuid.UUID   `json:"id"`
	Date      time.Time   `json:"date"`
	Status    game.Status `json:"status"`
	Team1Name string      `json:"team1_name"`
	Team2Name string      `json:"team2_name"`
	Winner    *string     `json:"winner"`
}

func NewGameState(data *service.GameData) GameState {
	g := data.Game
	view := GameState{
		ID:                 g.ID,
		Mode:               g.Mode,
		TeamSize:           g.TeamSize,
		Status:             g.Status,
		TeamAName:          data.TeamA.Name,
		TeamBName:          data.TeamB.Name,
		TeamARackStatus:    g.RackStatusA,
		TeamBRackStatus:    g.RackStatusB,
		TeamACupsMade:      g.CupsMadeA,
		TeamBCupsMade:      g.CupsMadeB,
		TeamACupsRemaining: g.CupsRemainingA,
		TeamBCupsRemaining: g.CupsRemainingB,
		Cups:               data.Ledger.Wire(),
		PlayerStats: TeamStatsView{
			TeamA: make(map[string]PlayerStatsView),
			TeamB: make(map[string]PlayerStatsView),
		},
	}

	for _, ps := range data.Stats {
		row := PlayerStatsView{
			Username:   data.Players[ps.PlayerID].Username,
			ShotsTaken: ps.ShotsTaken,
			CupsMade:   ps.CupsMade,
			OwnCups:    ps.OwnCups,
			DeathCups:  ps.DeathCups,
			ClutchCups: ps.ClutchCups,
			Accuracy:   ps.Accuracy,
			Score:      ps.Score,
		}
		switch {
		case data.TeamA.Has(ps.PlayerID):
			view.PlayerStats.TeamA[ps.PlayerID.String()] = row
		case data.TeamB.Has(ps.PlayerID):
			view.PlayerStats.TeamB[ps.PlayerID.String()] = row
		}
	}

	if g.WinnerID != nil {
		switch *g.WinnerID {
		case data.TeamA.ID:
			view.Winner = &data.TeamA.Name
		case data.TeamB.ID:
			view.Winner = &data.TeamB.Name
		}
	}
	return view
}

func NewRoundResult(res *service.RoundResult) RoundResult {
	deathCups := res.Round.DeathCups
	if deathCups == nil {
		deathCups = []string{}
	}
	return RoundResult{
		GameState:   NewGameState(&res.GameData),
		RoundNumber: res.Round.RoundNumber,
		RoundCups:   res.Round.Cups.Wire(),
		DeathCups:   deathCups,
	}
}

func NewRounds(rounds []game.Round) []RoundView {
	views := make([]RoundView, 0, len(rounds))
	for _, r := range rounds {
		deathCups := r.DeathCups
		if deathCups == nil {
			deathCups = []string{}
		}
		views = append(views, RoundView{
			RoundNumber: r.RoundNumber,
			Cups:        r.Cups.Wire(),
			RackStatusA: r.RackStatusA,
			RackStatusB: r.RackStatusB,
			DeathCups:   deathCups,
			CreatedAt:   r.CreatedAt,
		})
	}
	return views
}

func NewGameList(games []game.Summary) []GameListItem {
	items := make([]GameListItem, 0, len(games))
	for _, g := range games {
		items = append(items, GameListItem{
			ID:        g.ID,
			Date:      g.CreatedAt,
			Status:    g.Status,
			Team1Name: g.Team1Name,
			Team2Name: g.Team2Name,
			Winner:    g.WinnerName,
		})
	}
	return items
}
