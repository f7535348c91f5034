package httpapi

import (
	"time"

	"github.com/riskibarqy/courtside/internal/domain/broadcast"
	"github.com/riskibarqy/courtside/internal/domain/chat"
	"github.com/riskibarqy/courtside/internal/domain/court"
	"github.com/riskibarqy/courtside/internal/domain/ticker"
	"github.com/riskibarqy/courtside/internal/usecase"
)

type setNameRequest struct {
	Name *string `json:"name" validate:"required,max=40"`
}

type checkInRequest struct {
	CourtID    int    `json:"court_id" validate:"required,gt=0"`
	Duration   string `json:"duration" validate:"omitempty,max=8"`
	PlayerName string `json:"player_name" validate:"omitempty,max=40"`
}

type publishBroadcastRequest struct {
	Message       string `json:"message" validate:"required,max=280"`
	PlayerName    string `json:"player_name" validate:"omitempty,max=40"`
	CourtName     string `json:"court_name" validate:"omitempty,max=80"`
	PlayersNeeded string `json:"players_needed" validate:"omitempty,oneof=1 2 3 4 5 6+"`
	SkillLevel    string `json:"skill_level" validate:"omitempty,max=32"`
	RunType       string `json:"run_type" validate:"omitempty,max=32"`
}

type chatScopeRequest struct {
	Mode    string `json:"mode" validate:"omitempty,oneof=global court"`
	CourtID int    `json:"court_id" validate:"omitempty,gt=0"`
}

type chatMessageRequest struct {
	Message string `json:"message" validate:"required,max=500"`
}

type chatPanelRequest struct {
	Open *bool `json:"open" validate:"required"`
}

type sessionDTO struct {
	Name            *string    `json:"name"`
	NeedsOnboarding bool       `json:"needs_onboarding"`
	CheckedIn       bool       `json:"checked_in"`
	CourtID         int        `json:"court_id,omitempty"`
	CourtName       string     `json:"court_name,omitempty"`
	CheckedInAt     *time.Time `json:"checked_in_at,omitempty"`
	RecordID        string     `json:"record_id,omitempty"`
	ElapsedSeconds  int64      `json:"elapsed_seconds,omitempty"`
	ElapsedLabel    string     `json:"elapsed_label,omitempty"`
}

type checkInResultDTO struct {
	Session     sessionDTO `json:"session"`
	Remote      string     `json:"remote"`
	RemoteError string     `json:"remote_error,omitempty"`
}

type locationDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type courtDTO struct {
	ID                 int         `json:"id"`
	Name               string      `json:"name"`
	Address            string      `json:"address"`
	Location           locationDTO `json:"location"`
	MaxPlayers         int         `json:"max_players"`
	Courts             int         `json:"courts"`
	Hoops              int         `json:"hoops"`
	Surface            string      `json:"surface"`
	Lights             bool        `json:"lights"`
	Level              string      `json:"level"`
	Rating             float64     `json:"rating"`
	Tags               []string    `json:"tags"`
	NeedPlayersMessage string      `json:"need_players_message,omitempty"`
	CheckedIn          int         `json:"checked_in"`
	FillPercent        int         `json:"fill_percent"`
	SpotsRemaining     int         `json:"spots_remaining"`
	StatusLabel        string      `json:"status_label"`
	StatusColor        string      `json:"status_color"`
	NeedsPlayers       bool        `json:"needs_players"`
	Broadcasting       bool        `json:"broadcasting"`
}

type breakdownDTO struct {
	Name    string `json:"name"`
	Players int    `json:"players"`
	Share   int    `json:"share"`
}

type courtStatsDTO struct {
	TotalPlayers      int            `json:"total_players"`
	TotalCapacity     int            `json:"total_capacity"`
	ActiveCourts      int            `json:"active_courts"`
	NeedPlayersCourts int            `json:"need_players_courts"`
	AvgRating         float64        `json:"avg_rating"`
	OverallFill       int            `json:"overall_fill"`
	Locations         int            `json:"locations"`
	TotalCourts       int            `json:"total_courts"`
	TotalHoops        int            `json:"total_hoops"`
	ByLevel           []breakdownDTO `json:"by_level"`
	BySurface         []breakdownDTO `json:"by_surface"`
	Ranking           []courtDTO     `json:"ranking"`
}

type statusDTO struct {
	CourtsActive int    `json:"courts_active"`
	PlayersOut   int    `json:"players_out"`
	CourtsLabel  string `json:"courts_label"`
	PlayersLabel string `json:"players_label"`
}

type occupancyDTO struct {
	Counts map[int]int `json:"counts"`
}

type broadcastDTO struct {
	ID            string    `json:"id"`
	PlayerName    string    `json:"player_name"`
	CourtID       *int      `json:"court_id"`
	CourtName     string    `json:"court_name"`
	Message       string    `json:"message"`
	PlayersNeeded string    `json:"players_needed"`
	SkillLevel    string    `json:"skill_level"`
	RunType       string    `json:"run_type"`
	CreatedAt     time.Time `json:"created_at"`
	Age           string    `json:"age"`
}

type chatScopeDTO struct {
	Mode    string `json:"mode"`
	CourtID int    `json:"court_id,omitempty"`
}

type chatMessageDTO struct {
	ID         string    `json:"id"`
	ChatType   string    `json:"chat_type"`
	CourtID    *int      `json:"court_id"`
	CourtName  *string   `json:"court_name"`
	PlayerName string    `json:"player_name"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	Color      string    `json:"color"`
	Age        string    `json:"age"`
}

type chatDTO struct {
	Active   bool             `json:"active"`
	Scope    *chatScopeDTO    `json:"scope,omitempty"`
	Unread   int              `json:"unread"`
	Messages []chatMessageDTO `json:"messages"`
}

type tickerTeamDTO struct {
	Abbr  string `json:"abbr"`
	Logo  string `json:"logo,omitempty"`
	Score string `json:"score,omitempty"`
}

type tickerGameDTO struct {
	ID          string        `json:"id"`
	League      string        `json:"league"`
	Away        tickerTeamDTO `json:"away"`
	Home        tickerTeamDTO `json:"home"`
	State       string        `json:"state"`
	StatusLabel string        `json:"status_label"`
	StartsAt    time.Time     `json:"starts_at"`
}

type tickerDTO struct {
	Enabled   bool            `json:"enabled"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
	Games     []tickerGameDTO `json:"games"`
}

func toSessionDTO(view usecase.SessionView) sessionDTO {
	return sessionDTO{
		Name:            view.Name,
		NeedsOnboarding: view.NeedsOnboarding,
		CheckedIn:       view.CheckedInAt != nil,
		CourtID:         view.CourtID,
		CourtName:       view.CourtName,
		CheckedInAt:     view.CheckedInAt,
		RecordID:        view.RecordID,
		ElapsedSeconds:  int64(view.Elapsed / time.Second),
		ElapsedLabel:    view.ElapsedLabel,
	}
}

func toCourtDTO(item court.Live) courtDTO {
	status := item.Status()
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	out := courtDTO{
		ID:      item.ID,
		Name:    item.Name,
		Address: item.Address,
		Location: locationDTO{
			Lat: item.Location.Lat,
			Lng: item.Location.Lng,
		},
		MaxPlayers:     item.MaxPlayers,
		Courts:         item.Courts,
		Hoops:          item.Hoops,
		Surface:        string(item.Surface),
		Lights:         item.Lights,
		Level:          string(item.Level),
		Rating:         item.Rating,
		Tags:           tags,
		CheckedIn:      item.CheckedIn,
		FillPercent:    item.FillPercent(),
		SpotsRemaining: item.SpotsRemaining(),
		StatusLabel:    status.Label,
		StatusColor:    status.Color,
		NeedsPlayers:   item.NeedsPlayers(),
		Broadcasting:   item.Broadcasting,
	}
	if item.NeedPlayers {
		out.NeedPlayersMessage = item.NeedPlayersMessage
	}
	return out
}

func toCourtDTOs(items []court.Live) []courtDTO {
	out := make([]courtDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toCourtDTO(item))
	}
	return out
}

func toBreakdownDTOs(items []court.Breakdown) []breakdownDTO {
	out := make([]breakdownDTO, 0, len(items))
	for _, item := range items {
		out = append(out, breakdownDTO{Name: item.Name, Players: item.Players, Share: item.Share})
	}
	return out
}

func toCourtStatsDTO(stats court.Stats) courtStatsDTO {
	return courtStatsDTO{
		TotalPlayers:      stats.TotalPlayers,
		TotalCapacity:     stats.TotalCapacity,
		ActiveCourts:      stats.ActiveCourts,
		NeedPlayersCourts: stats.NeedPlayersCourts,
		AvgRating:         stats.AvgRating,
		OverallFill:       stats.OverallFill,
		Locations:         stats.Locations,
		TotalCourts:       stats.TotalCourts,
		TotalHoops:        stats.TotalHoops,
		ByLevel:           toBreakdownDTOs(stats.ByLevel),
		BySurface:         toBreakdownDTOs(stats.BySurface),
		Ranking:           toCourtDTOs(stats.Ranking),
	}
}

func toBroadcastDTO(item broadcast.Broadcast, now time.Time) broadcastDTO {
	return broadcastDTO{
		ID:            item.ID,
		PlayerName:    item.PlayerName,
		CourtID:       item.CourtID,
		CourtName:     item.CourtName,
		Message:       item.Message,
		PlayersNeeded: item.PlayersNeeded,
		SkillLevel:    item.SkillLevel,
		RunType:       item.RunType,
		CreatedAt:     item.CreatedAt,
		Age:           chat.RelativeTime(item.CreatedAt, now),
	}
}

func toChatMessageDTO(item chat.Message, now time.Time) chatMessageDTO {
	return chatMessageDTO{
		ID:         item.ID,
		ChatType:   string(item.Type),
		CourtID:    item.CourtID,
		CourtName:  item.CourtName,
		PlayerName: item.PlayerName,
		Message:    item.Message,
		CreatedAt:  item.CreatedAt,
		Color:      chat.ColorFor(item.PlayerName),
		Age:        chat.RelativeTime(item.CreatedAt, now),
	}
}

func toChatScopeDTO(scope chat.Scope) *chatScopeDTO {
	out := &chatScopeDTO{Mode: string(scope.Mode)}
	if scope.Mode == chat.ModeCourt {
		out.CourtID = scope.CourtID
	}
	return out
}

func toTickerTeamDTO(team ticker.Team) tickerTeamDTO {
	return tickerTeamDTO{Abbr: team.Abbr, Logo: team.Logo, Score: team.Score}
}

func toTickerGameDTO(game ticker.Game) tickerGameDTO {
	return tickerGameDTO{
		ID:          game.ID,
		League:      string(game.League),
		Away:        toTickerTeamDTO(game.Away),
		Home:        toTickerTeamDTO(game.Home),
		State:       string(game.State),
		StatusLabel: game.StatusLabel,
		StartsAt:    game.StartsAt,
	}
}
