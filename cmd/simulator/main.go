package main

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/adapters/ai"
	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/adapters/observability"
	redisad "github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/adapters/redis"
	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/app"
	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/shared"
	mysqlrepo "github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/storage/mysql"
)

const simWorkers = 4

// scenario is one scripted demo inspection. Filenames pick the mock
// classifier's deterministic path, so each property lands on a known risk.
type scenario struct {
	owner  string
	name   string
	house  string
	street string
	rooms  []domain.RoomSpec
	images map[string][]string // room name -> filenames
}

var scenarios = []scenario{
	{
		owner: "demo-owner-1", name: "Riverside Villa", house: "12", street: "12 River Road",
		rooms: []domain.RoomSpec{{Name: "Master Bedroom", Type: "bedroom"}, {Name: "Kitchen", Type: "kitchen"}},
		images: map[string][]string{
			"Master Bedroom": {"bedroom_damp_wall.jpg"},
			"Kitchen":        {"kitchen_exposed_wire.jpg"},
		},
	},
	{
		owner: "demo-owner-2", name: "Hillcrest House", house: "7", street: "7 Hillcrest Lane",
		rooms: []domain.RoomSpec{{Name: "Living Room", Type: "living_room"}},
		images: map[string][]string{
			"Living Room": {"ceiling_crack.jpg", "clean_corner.jpg"},
		},
	},
	{
		owner: "demo-owner-3", name: "Garden Flat", house: "3B", street: "3B Garden Mews",
		rooms:  nil, // exercises the single-generic-room substitution
		images: map[string][]string{"Single Room": {"hallway.jpg"}},
	},
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, "inspection-simulator")
	log.Info().Int("workers", simWorkers).Int("scenarios", len(scenarios)).Msg("simulator starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	repo := mysqlrepo.New(db)
	sessions := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SessionTTLSec)
	mock := ai.NewMock(cfg.AIOverride)
	workflow := app.NewWorkflowService(repo, repo, sessions, mock, mock)

	sem := semaphore.NewWeighted(simWorkers)
	var wg sync.WaitGroup

	for _, sc := range scenarios {
		sc := sc
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			if err := runScenario(ctx, workflow, repo, sc); err != nil {
				log.Warn().Str("property", sc.name).Err(err).Msg("scenario failed")
				return
			}
			log.Info().Str("property", sc.name).Msg("scenario ok")
		}()
	}

	wg.Wait()
	log.Info().Msg("simulation completed")
}

func runScenario(ctx context.Context, workflow *app.WorkflowService, repo *mysqlrepo.Repo, sc scenario) error {
	sess, err := workflow.Start(ctx, app.StartInput{
		UserID:      sc.owner,
		Role:        domain.RoleUser,
		Name:        sc.name,
		HouseNumber: sc.house,
		Address:     sc.street,
	})
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}

	sess, err = workflow.ConfigureRooms(ctx, sess.ID, sc.rooms)
	if err != nil {
		return fmt.Errorf("configure rooms: %w", err)
	}

	for sess.Step == domain.StepUploading {
		room, _ := sess.CurrentRoom()
		var uploads []app.Upload
		for _, fn := range sc.images[room.Name] {
			uploads = append(uploads, app.Upload{
				URL:      "http://objstore/demo/" + fn,
				Filename: fn,
			})
		}
		sess, _, err = workflow.AdvanceRoom(ctx, sess.ID, uploads)
		if err != nil {
			return fmt.Errorf("room %s: %w", room.Name, err)
		}
	}

	if sess, err = workflow.SkipDocuments(ctx, sess.ID); err != nil {
		return fmt.Errorf("skip documents: %w", err)
	}

	findings, err := repo.ListFindings(ctx, sess.PropertyID)
	if err != nil {
		return fmt.Errorf("list findings: %w", err)
	}
	risk := domain.PropertyRisk(sess.PropertyID, findings)
	log.Info().
		Str("property", sess.PropertyID).
		Int("findings", risk.TotalFindings).
		Int("score", risk.Score).
		Str("rating", string(risk.Rating)).
		Msg("inspection simulated")
	return nil
}
