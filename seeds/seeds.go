package seeds

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const defaultBlendWeight = 6.0

type seedUser struct {
	Name  string
	Email string
}

type seedMovie struct {
	ID     int64
	Title  string
	Year   int
	Rating float64
}

var seedUsers = []seedUser{
	{"Ada Novak", "ada@example.com"},
	{"Ben Carver", "ben@example.com"},
	{"Chloe Ibarra", "chloe@example.com"},
	{"Dmitri Kovac", "dmitri@example.com"},
	{"Efe Yilmaz", "efe@example.com"},
}

// A small slice of the movie corpus the scoring service is trained on, keyed
// by its canonical movie ids.
var seedMovies = []seedMovie{
	{27205, "Inception", 2010, 4.2},
	{155, "The Dark Knight", 2008, 4.4},
	{603, "The Matrix", 1999, 4.3},
	{680, "Pulp Fiction", 1994, 4.3},
	{13, "Forrest Gump", 1994, 4.1},
	{550, "Fight Club", 1999, 4.2},
	{278, "The Shawshank Redemption", 1994, 4.5},
	{238, "The Godfather", 1972, 4.5},
	{424, "Schindler's List", 1993, 4.4},
	{120, "The Lord of the Rings: The Fellowship of the Ring", 2001, 4.3},
	{122, "The Lord of the Rings: The Return of the King", 2003, 4.4},
	{11, "Star Wars", 1977, 4.2},
	{1891, "The Empire Strikes Back", 1980, 4.3},
	{157336, "Interstellar", 2014, 4.2},
	{118340, "Guardians of the Galaxy", 2014, 3.9},
	{293660, "Deadpool", 2016, 3.8},
	{324857, "Spider-Man: Into the Spider-Verse", 2018, 4.2},
	{496243, "Parasite", 2019, 4.3},
	{419430, "Get Out", 2017, 4.0},
	{346364, "It", 2017, 3.6},
	{62, "2001: A Space Odyssey", 1968, 4.1},
	{78, "Blade Runner", 1982, 4.1},
	{335984, "Blade Runner 2049", 2017, 4.1},
	{264660, "Ex Machina", 2014, 3.9},
	{9340, "The Goonies", 1985, 3.8},
	{105, "Back to the Future", 1985, 4.2},
	{601, "E.T. the Extra-Terrestrial", 1982, 3.9},
	{329, "Jurassic Park", 1993, 4.0},
	{578, "Jaws", 1975, 4.0},
	{694, "The Shining", 1980, 4.1},
}

// Setup seeds users and the movie catalog. Interactions and recommendations
// are produced by user actions, never seeded.
func Setup(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	log := logger.With().Str("component", "seeds").Logger()

	log.Info().Msg("truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE movie_recommendations, user_movie_interactions, movies, users RESTART IDENTITY CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	log.Info().Int("count", len(seedUsers)).Msg("inserting users")
	if err := insertUsers(ctx, pool); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	log.Info().Int("count", len(seedMovies)).Msg("inserting movies")
	if err := insertMovies(ctx, pool); err != nil {
		return fmt.Errorf("seed movies: %w", err)
	}

	log.Info().Msg("seeding complete")
	return nil
}

func insertUsers(ctx context.Context, pool *pgxpool.Pool) error {
	rows := []string{}
	args := []any{}

	for i, u := range seedUsers {
		// Deterministic ids so repeat seeds are stable across environments.
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("user:"+u.Email))

		base := i * 4
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, id, u.Name, u.Email, defaultBlendWeight)
	}

	query := fmt.Sprintf(
		`INSERT INTO users (id, name, email, blend_weight) VALUES %s`,
		strings.Join(rows, ", "),
	)
	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert users: %w", err)
	}
	return nil
}

func insertMovies(ctx context.Context, pool *pgxpool.Pool) error {
	rows := []string{}
	args := []any{}

	for i, m := range seedMovies {
		base := i * 4
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, m.ID, m.Title, m.Year, m.Rating)
	}

	query := fmt.Sprintf(
		`INSERT INTO movies (movie_id, title, release_year, rating) VALUES %s`,
		strings.Join(rows, ", "),
	)
	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert movies: %w", err)
	}
	return nil
}
