package memory

import "github.com/riskibarqy/courtside/internal/domain/court"

// SeedCourts is the court catalog served when no other catalog is configured.
func SeedCourts() []court.Court {
	return []court.Court{
		{
			ID:         1,
			Name:       "Lincoln Park Courts",
			Address:    "Lincoln Park, Jersey City, NJ",
			Location:   court.Location{Lat: 40.7246, Lng: -74.0800},
			MaxPlayers: 20,
			Courts:     2,
			Hoops:      4,
			Surface:    court.SurfaceAsphalt,
			Lights:     true,
			Level:      court.LevelCompetitive,
			Rating:     4.6,
			Tags:       []string{"Full court", "Lights", "Runs after 6pm"},
		},
		{
			ID:                 2,
			Name:               "Hamilton Park",
			Address:            "25 W Hamilton Pl, Jersey City, NJ",
			Location:           court.Location{Lat: 40.7282, Lng: -74.0447},
			MaxPlayers:         10,
			Courts:             1,
			Hoops:              2,
			Surface:            court.SurfaceRubber,
			Lights:             false,
			Level:              court.LevelIntermediate,
			Rating:             4.2,
			Tags:               []string{"Shade", "Water fountain"},
			NeedPlayers:        true,
			NeedPlayersMessage: "Need 2 for a 5v5 run",
		},
		{
			ID:         3,
			Name:       "Van Vorst Park",
			Address:    "Jersey Ave & Montgomery St, Jersey City, NJ",
			Location:   court.Location{Lat: 40.7196, Lng: -74.0466},
			MaxPlayers: 10,
			Courts:     1,
			Hoops:      2,
			Surface:    court.SurfaceConcrete,
			Lights:     false,
			Level:      court.LevelCasual,
			Rating:     3.8,
			Tags:       []string{"Half court games"},
		},
		{
			ID:         4,
			Name:       "Pershing Field",
			Address:    "201 Central Ave, Jersey City, NJ",
			Location:   court.Location{Lat: 40.7478, Lng: -74.0530},
			MaxPlayers: 20,
			Courts:     2,
			Hoops:      4,
			Surface:    court.SurfaceSportCourt,
			Lights:     true,
			Level:      court.LevelMixed,
			Rating:     4.4,
			Tags:       []string{"Full court", "Lights", "Track nearby"},
		},
		{
			ID:         5,
			Name:       "Church Square Park",
			Address:    "400 Garden St, Hoboken, NJ",
			Location:   court.Location{Lat: 40.7425, Lng: -74.0302},
			MaxPlayers: 10,
			Courts:     1,
			Hoops:      2,
			Surface:    court.SurfaceAsphalt,
			Lights:     true,
			Level:      court.LevelCompetitive,
			Rating:     4.5,
			Tags:       []string{"Lights", "Winner stays"},
		},
		{
			ID:         6,
			Name:       "Stevens Park",
			Address:    "Hudson St & 4th St, Hoboken, NJ",
			Location:   court.Location{Lat: 40.7404, Lng: -74.0276},
			MaxPlayers: 10,
			Courts:     1,
			Hoops:      2,
			Surface:    court.SurfaceRubber,
			Lights:     false,
			Level:      court.LevelIntermediate,
			Rating:     4.0,
			Tags:       []string{"Waterfront"},
		},
		{
			ID:         7,
			Name:       "Columbus Park",
			Address:    "Clinton St & 9th St, Hoboken, NJ",
			Location:   court.Location{Lat: 40.7480, Lng: -74.0338},
			MaxPlayers: 10,
			Courts:     1,
			Hoops:      2,
			Surface:    court.SurfaceConcrete,
			Lights:     true,
			Level:      court.LevelMixed,
			Rating:     3.9,
			Tags:       []string{"Lights", "Benches"},
		},
		{
			ID:         8,
			Name:       "Berry Lane Park",
			Address:    "Garfield Ave & Berry Ln, Jersey City, NJ",
			Location:   court.Location{Lat: 40.7063, Lng: -74.0764},
			MaxPlayers: 20,
			Courts:     2,
			Hoops:      4,
			Surface:    court.SurfaceSportCourt,
			Lights:     true,
			Level:      court.LevelCasual,
			Rating:     4.3,
			Tags:       []string{"New surface", "Full court"},
		},
	}
}
