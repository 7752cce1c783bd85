package game

// State mirrors the JSON document the game server returns on every turn.
type State struct {
	Game    GameInfo `json:"game"`
	Hero    HeroDTO  `json:"hero"`
	Token   string   `json:"token,omitempty"`
	ViewURL string   `json:"viewUrl,omitempty"`
	PlayURL string   `json:"playUrl,omitempty"`
}

type GameInfo struct {
	ID        string        `json:"id,omitempty"`
	Turn      int           `json:"turn"`
	MaxTurns  int           `json:"maxTurns"`
	Heroes    []HeroDTO     `json:"heroes"`
	Customers []CustomerDTO `json:"customers"`
	Board     BoardDTO      `json:"board"`
	Finished  bool          `json:"finished"`
}

type BoardDTO struct {
	Size  int    `json:"size"`
	Tiles string `json:"tiles"`
}

type PosDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type HeroDTO struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Pos              PosDTO `json:"pos"`
	Life             int    `json:"life"`
	Calories         int    `json:"calories"`
	FrenchFriesCount int    `json:"frenchFriesCount"`
	BurgerCount      int    `json:"burgerCount"`
}

type CustomerDTO struct {
	ID              int `json:"id"`
	Burger          int `json:"burger"`
	FrenchFries     int `json:"frenchFries"`
	FulfilledOrders int `json:"fulfilledOrders"`
}

// Finished is the terminal state handed back when the session can no longer
// be driven.
func Finished() State {
	return State{Game: GameInfo{Finished: true}}
}
