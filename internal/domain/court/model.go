package court

type Surface string

const (
	SurfaceAsphalt    Surface = "Asphalt"
	SurfaceConcrete   Surface = "Concrete"
	SurfaceRubber     Surface = "Rubber"
	SurfaceSportCourt Surface = "Sport Court"
)

var Surfaces = []Surface{SurfaceAsphalt, SurfaceConcrete, SurfaceRubber, SurfaceSportCourt}

type Level string

const (
	LevelCompetitive  Level = "Competitive"
	LevelIntermediate Level = "Intermediate"
	LevelMixed        Level = "Mixed"
	LevelCasual       Level = "Casual"
)

var Levels = []Level{LevelCompetitive, LevelIntermediate, LevelMixed, LevelCasual}

type Location struct {
	Lat float64
	Lng float64
}

// Court is static reference data. Occupancy is never stored here.
type Court struct {
	ID                 int
	Name               string
	Address            string
	Location           Location
	MaxPlayers         int
	Courts             int
	Hoops              int
	Surface            Surface
	Lights             bool
	Level              Level
	Rating             float64
	Tags               []string
	NeedPlayers        bool
	NeedPlayersMessage string
}
