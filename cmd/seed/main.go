package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/clinic-scheduling/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	professionalIDs, err := seedProfessionals(context.Background(), pool, 20)
	if err != nil {
		log.Fatalf("seed professionals: %v", err)
	}
	patientIDs, err := seedPatients(context.Background(), pool, 500)
	if err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedWorkingHours(context.Background(), pool, professionalIDs); err != nil {
		log.Fatalf("seed working hours: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, professionalIDs, patientIDs, 200); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

var specialties = []string{
	"General Practice",
	"Physiotherapy",
	"Dermatology",
	"Orthodontics",
	"Psychology",
}

func seedProfessionals(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		specialty := specialties[gofakeit.Number(0, len(specialties)-1)]
		_, err := pool.Exec(ctx, `
			INSERT INTO professionals (id, name, specialty, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, id, gofakeit.Name(), specialty)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Printf("inserted %d professionals", count)
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		_, err := pool.Exec(ctx, `
			INSERT INTO patients (id, name, phone, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, id, gofakeit.Name(), gofakeit.Phone())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Printf("inserted %d patients", count)
	return ids, nil
}

// seedWorkingHours gives every professional a Monday to Friday schedule
// with a morning and an afternoon shift.
func seedWorkingHours(ctx context.Context, pool *pgxpool.Pool, professionalIDs []uuid.UUID) error {
	shifts := [][2]int{
		{8 * 60, 12 * 60},
		{13 * 60, 18 * 60},
	}

	for _, id := range professionalIDs {
		for day := int(time.Monday); day <= int(time.Friday); day++ {
			for _, shift := range shifts {
				_, err := pool.Exec(ctx, `
					INSERT INTO working_hours (professional_id, day_of_week, start_minute, end_minute, created_at, updated_at)
					VALUES ($1, $2, $3, $4, now(), now())
				`, id, day, shift[0], shift[1])
				if err != nil {
					return err
				}
			}
		}
	}
	log.Printf("inserted working hours for %d professionals", len(professionalIDs))
	return nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, professionalIDs, patientIDs []uuid.UUID, count int) error {
	for i := 0; i < count; i++ {
		professionalID := professionalIDs[gofakeit.Number(0, len(professionalIDs)-1)]
		patientID := patientIDs[gofakeit.Number(0, len(patientIDs)-1)]

		day := time.Now().AddDate(0, 0, gofakeit.Number(1, 14))
		hour := gofakeit.Number(8, 16)
		start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.Local)
		end := start.Add(time.Duration(gofakeit.Number(1, 4)) * 15 * time.Minute)

		_, err := pool.Exec(ctx, `
			INSERT INTO appointments (id, professional_id, patient_id, start_time, end_time, status, squeeze_in, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, 'booked', false, '', now(), now())
		`, uuid.New(), professionalID, patientID, start, end)
		if err != nil {
			return err
		}
	}
	log.Printf("inserted %d appointments", count)
	return nil
}
