//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"pethotel/internal/domain"
	mysqlrepo "pethotel/internal/storage/mysql"
)

func pstr(s string) *string { return &s }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	// Isolated MySQL; Docker picks a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=pethotel",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/pethotel?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		hostPort)

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_ReservationLifecycle(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Seed an owner, a customer with two pets, and a hotel with a room and a service.
	ownerID, err := repo.CreateUser(ctx, domain.User{
		Email: "owner@example.com", PasswordHash: "x", Name: "Olive", Role: domain.RoleOwner,
	})
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	custID, err := repo.CreateUser(ctx, domain.User{
		Email: "cust@example.com", PasswordHash: "x", Name: "Casey", Role: domain.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	pet1, err := repo.CreatePet(ctx, domain.Pet{OwnerID: custID, Name: "Rex", Species: "dog"})
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}
	pet2, err := repo.CreatePet(ctx, domain.Pet{OwnerID: custID, Name: "Mia", Species: "cat"})
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}

	hotelID, err := repo.CreateHotel(ctx, domain.Hotel{
		OwnerID: ownerID, Name: "Paws Inn", City: pstr("Lisbon"), Images: []string{},
	})
	if err != nil {
		t.Fatalf("create hotel: %v", err)
	}
	roomID, err := repo.CreateRoom(ctx, domain.Room{
		HotelID: hotelID, Name: "Standard Kennel", PricePerNight: 1000, MaxPets: 3, Images: []string{},
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	svcID, err := repo.CreateService(ctx, domain.Service{HotelID: hotelID, Name: "Grooming", Price: 200})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	dr, err := domain.NewDateRange(
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("date range: %v", err)
	}

	resvID, err := repo.CreateReservation(ctx, domain.Reservation{
		UserID:          custID,
		HotelID:         hotelID,
		RoomID:          roomID,
		PetIDs:          []int64{pet1, pet2},
		CheckIn:         dr.CheckIn(),
		CheckOut:        dr.CheckOut(),
		ServiceIDs:      []int64{svcID},
		SpecialRequests: pstr("no loud neighbours"),
		TotalPrice:      6350,
		Status:          domain.StatusPending,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	got, err := repo.GetReservation(ctx, resvID)
	if err != nil {
		t.Fatalf("GetReservation: %v", err)
	}
	if got.Status != domain.StatusPending || got.TotalPrice != 6350 {
		t.Fatalf("unexpected reservation: %+v", got)
	}
	if len(got.PetIDs) != 2 || len(got.ServiceIDs) != 1 {
		t.Fatalf("junction rows not read back: pets=%v services=%v", got.PetIDs, got.ServiceIDs)
	}

	// Pending reservations count toward occupancy for overlapping windows.
	overlap, err := domain.NewDateRange(
		time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("date range: %v", err)
	}
	occ, err := repo.OccupancyForRange(ctx, roomID, overlap)
	if err != nil {
		t.Fatalf("OccupancyForRange: %v", err)
	}
	if occ != 2 {
		t.Fatalf("occupancy = %d, want 2", occ)
	}

	// A back-to-back stay starting on the check-out day does not overlap.
	adjacent, err := domain.NewDateRange(
		time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("date range: %v", err)
	}
	occ, err = repo.OccupancyForRange(ctx, roomID, adjacent)
	if err != nil {
		t.Fatalf("OccupancyForRange: %v", err)
	}
	if occ != 0 {
		t.Fatalf("occupancy = %d, want 0 for adjacent window", occ)
	}

	// Status update is compare-and-set on the stored status.
	if err := repo.UpdateReservationStatus(ctx, resvID, domain.StatusPending, domain.StatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	err = repo.UpdateReservationStatus(ctx, resvID, domain.StatusPending, domain.StatusCancelled)
	if !errors.Is(err, domain.ErrInvalidStatusTransition) {
		t.Fatalf("stale CAS err = %v, want ErrInvalidStatusTransition", err)
	}
	err = repo.UpdateReservationStatus(ctx, 999999, domain.StatusPending, domain.StatusConfirmed)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing row err = %v, want ErrNotFound", err)
	}

	// Cancelled rooms free their occupancy.
	if err := repo.UpdateReservationStatus(ctx, resvID, domain.StatusConfirmed, domain.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	occ, err = repo.OccupancyForRange(ctx, roomID, overlap)
	if err != nil {
		t.Fatalf("OccupancyForRange: %v", err)
	}
	if occ != 0 {
		t.Fatalf("occupancy = %d, want 0 after cancel", occ)
	}

	lst, err := repo.ListUserReservations(ctx, custID)
	if err != nil {
		t.Fatalf("ListUserReservations: %v", err)
	}
	if len(lst) != 1 || lst[0].Status != domain.StatusCancelled {
		t.Fatalf("unexpected list: %+v", lst)
	}
}

func TestRepo_MySQL_ImportUpsertKeepsRoomIDs(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	h := domain.Hotel{
		SourceRef: pstr("feed-42"),
		Name:      "Imported Paws",
		City:      pstr("Porto"),
		Images:    []string{},
	}
	rooms := []domain.Room{
		{Name: "Suite", PricePerNight: 2500, MaxPets: 2, Images: []string{}},
	}
	services := []domain.Service{{Name: "Walks", Price: 500}}

	id1, err := repo.UpsertImportedHotel(ctx, h, rooms, services)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	detail, err := repo.GetHotel(ctx, id1)
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if len(detail.Rooms) != 1 || len(detail.Services) != 1 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	roomID := detail.Rooms[0].ID

	// Re-import with a new price; the hotel and its room rows survive in place.
	rooms[0].PricePerNight = 2700
	id2, err := repo.UpsertImportedHotel(ctx, h, rooms, services)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if id2 != id1 {
		t.Fatalf("hotel id changed across imports: %d -> %d", id1, id2)
	}

	detail, err = repo.GetHotel(ctx, id1)
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if detail.Rooms[0].ID != roomID {
		t.Fatalf("room id changed across imports: %d -> %d", roomID, detail.Rooms[0].ID)
	}
	if detail.Rooms[0].PricePerNight != 2700 {
		t.Fatalf("room price = %d, want 2700", detail.Rooms[0].PricePerNight)
	}

	if err := repo.LogImportMiss(ctx, "feed-404", 404, "not found"); err != nil {
		t.Fatalf("LogImportMiss: %v", err)
	}
	// Logging the same ref again updates the existing row.
	if err := repo.LogImportMiss(ctx, "feed-404", 403, "inactive"); err != nil {
		t.Fatalf("LogImportMiss repeat: %v", err)
	}
}
