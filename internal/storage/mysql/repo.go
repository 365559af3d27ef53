package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"pethotel/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func scanStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func jsonList(ss []string) string {
	b, _ := json.Marshal(ss)
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// -----------------------------------------------------------------------------
// UserRepository
// -----------------------------------------------------------------------------

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Email, u.PasswordHash, u.Name, valStr(u.Phone), u.Role)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, getUserSQL, id))
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, getUserByEmailSQL, email))
}

func (r *Repo) scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var phone sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &phone, &u.Role); err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	u.Phone = scanStr(phone)
	return u, nil
}

func (r *Repo) UpdateProfile(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, updateProfileSQL, u.Name, valStr(u.Phone), u.ID)
	return err
}

func (r *Repo) CreatePet(ctx context.Context, p domain.Pet) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertPetSQL,
		p.OwnerID, p.Name, p.Species, valStr(p.Breed), valInt(p.AgeYears), valStr(p.Notes), valStr(p.PhotoURL))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpdatePet(ctx context.Context, p domain.Pet) error {
	_, err := r.db.ExecContext(ctx, updatePetSQL,
		p.Name, p.Species, valStr(p.Breed), valInt(p.AgeYears), valStr(p.Notes), valStr(p.PhotoURL), p.ID)
	return err
}

func (r *Repo) DeletePet(ctx context.Context, id, ownerID int64) error {
	_, err := r.db.ExecContext(ctx, deletePetSQL, id, ownerID)
	return err
}

func (r *Repo) GetPet(ctx context.Context, id int64) (domain.Pet, error) {
	row := r.db.QueryRowContext(ctx, getPetSQL, id)
	p, err := scanPet(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Pet{}, domain.ErrNotFound
	}
	return p, err
}

func (r *Repo) ListPets(ctx context.Context, ownerID int64) ([]domain.Pet, error) {
	rows, err := r.db.QueryContext(ctx, listPetsSQL, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Pet
	for rows.Next() {
		p, err := scanPet(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPet(scan func(...any) error) (domain.Pet, error) {
	var p domain.Pet
	var breed, notes, photo sql.NullString
	var age sql.NullInt64
	if err := scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &breed, &age, &notes, &photo); err != nil {
		return domain.Pet{}, err
	}
	p.Breed = scanStr(breed)
	p.Notes = scanStr(notes)
	p.PhotoURL = scanStr(photo)
	if age.Valid {
		a := int(age.Int64)
		p.AgeYears = &a
	}
	return p, nil
}

// -----------------------------------------------------------------------------
// CatalogRepository
// -----------------------------------------------------------------------------

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.OwnerID, valStr(h.SourceRef), h.Name, valStr(h.City), valStr(h.Address),
		valStr(h.Description), valStr(h.Phone), jsonList(h.Images))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, valStr(h.City), valStr(h.Address), valStr(h.Description), valStr(h.Phone),
		jsonList(h.Images), h.ID)
	return err
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, deleteHotelSQL, id)
	return err
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.HotelDetail, error) {
	row := r.db.QueryRowContext(ctx, getHotelSQL, id)

	var h domain.Hotel
	var ownerID sql.NullInt64
	var sourceRef, city, address, desc, phone sql.NullString
	var imagesJSON []byte
	if err := row.Scan(&h.ID, &ownerID, &sourceRef, &h.Name, &city, &address, &desc, &phone, &imagesJSON); err != nil {
		if err == sql.ErrNoRows {
			return domain.HotelDetail{}, domain.ErrNotFound
		}
		return domain.HotelDetail{}, err
	}
	if ownerID.Valid {
		h.OwnerID = ownerID.Int64
	}
	h.SourceRef = scanStr(sourceRef)
	h.City = scanStr(city)
	h.Address = scanStr(address)
	h.Description = scanStr(desc)
	h.Phone = scanStr(phone)
	_ = json.Unmarshal(imagesJSON, &h.Images)

	rooms, err := r.listRooms(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	services, err := r.listServices(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	return domain.HotelDetail{Hotel: h, Rooms: rooms, Services: services}, nil
}

func (r *Repo) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	var (
		where []string
		args  []any
	)
	if q.City != nil {
		where = append(where, "city = ?")
		args = append(args, *q.City)
	}
	if q.Q != nil {
		where = append(where, "(name LIKE ? OR description LIKE ?)")
		pat := "%" + *q.Q + "%"
		args = append(args, pat, pat)
	}
	sqlStr := "SELECT id, owner_id, source_ref, name, city, address, description, phone, images FROM hotels"
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}
	sqlStr += " ORDER BY id LIMIT ?"
	args = append(args, q.Limit)

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return domain.HotelsPage{}, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		var ownerID sql.NullInt64
		var sourceRef, city, address, desc, phone sql.NullString
		var imagesJSON []byte
		if err := rows.Scan(&h.ID, &ownerID, &sourceRef, &h.Name, &city, &address, &desc, &phone, &imagesJSON); err != nil {
			return domain.HotelsPage{}, err
		}
		if ownerID.Valid {
			h.OwnerID = ownerID.Int64
		}
		h.SourceRef = scanStr(sourceRef)
		h.City = scanStr(city)
		h.Address = scanStr(address)
		h.Description = scanStr(desc)
		h.Phone = scanStr(phone)
		_ = json.Unmarshal(imagesJSON, &h.Images)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return domain.HotelsPage{}, err
	}
	return domain.HotelsPage{Items: out}, nil
}

func (r *Repo) listRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) listServices(ctx context.Context, hotelID int64) ([]domain.Service, error) {
	rows, err := r.db.QueryContext(ctx, listServicesSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.HotelID, &s.Name, &s.Price); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) CreateRoom(ctx context.Context, rm domain.Room) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.HotelID, rm.Name, rm.PricePerNight, rm.MaxPets, valStr(rm.Description), jsonList(rm.Images))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.db.ExecContext(ctx, updateRoomSQL,
		rm.Name, rm.PricePerNight, rm.MaxPets, valStr(rm.Description), jsonList(rm.Images), rm.ID)
	return err
}

func (r *Repo) DeleteRoom(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, deleteRoomSQL, id)
	return err
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	row := r.db.QueryRowContext(ctx, getRoomSQL, id)
	rm, err := scanRoom(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Room{}, domain.ErrNotFound
	}
	return rm, err
}

func scanRoom(scan func(...any) error) (domain.Room, error) {
	var rm domain.Room
	var desc sql.NullString
	var imagesJSON []byte
	if err := scan(&rm.ID, &rm.HotelID, &rm.Name, &rm.PricePerNight, &rm.MaxPets, &desc, &imagesJSON); err != nil {
		return domain.Room{}, err
	}
	rm.Description = scanStr(desc)
	_ = json.Unmarshal(imagesJSON, &rm.Images)
	return rm, nil
}

func (r *Repo) CreateService(ctx context.Context, s domain.Service) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertServiceSQL, s.HotelID, s.Name, s.Price)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateService(ctx context.Context, s domain.Service) error {
	_, err := r.db.ExecContext(ctx, updateServiceSQL, s.Name, s.Price, s.ID, s.HotelID)
	return err
}

func (r *Repo) DeleteService(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, deleteServiceSQL, id)
	return err
}

func (r *Repo) GetServices(ctx context.Context, hotelID int64, ids []int64) ([]domain.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, hotelID)
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, hotel_id, name, price FROM services WHERE hotel_id = ? AND id IN ("+placeholders+")",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.HotelID, &s.Name, &s.Price); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------
// Partner import
// -----------------------------------------------------------------------------

func (r *Repo) UpsertImportedHotel(ctx context.Context, h domain.Hotel, rooms []domain.Room, services []domain.Service) (int64, error) {
	if h.SourceRef == nil || *h.SourceRef == "" {
		return 0, fmt.Errorf("imported hotel requires a source ref")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertImportedHotelSQL,
		*h.SourceRef, h.Name, valStr(h.City), valStr(h.Address), valStr(h.Description),
		valStr(h.Phone), jsonList(h.Images)); err != nil {
		return 0, err
	}
	// LastInsertId is unreliable under ON DUPLICATE KEY UPDATE; re-read by ref.
	var hotelID int64
	if err := tx.QueryRowContext(ctx, hotelIDBySourceRefSQL, *h.SourceRef).Scan(&hotelID); err != nil {
		return 0, err
	}

	if len(rooms) > 0 {
		values := make([]string, 0, len(rooms))
		args := make([]any, 0, len(rooms)*6)
		for _, rm := range rooms {
			values = append(values, "(?,?,?,?,?,?)")
			args = append(args, hotelID, rm.Name, rm.PricePerNight, rm.MaxPets, valStr(rm.Description), jsonList(rm.Images))
		}
		sqlStr := insertRoomsPrefix + strings.Join(values, ",") + insertRoomsOnDup
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return 0, err
		}
	}

	if len(services) > 0 {
		values := make([]string, 0, len(services))
		args := make([]any, 0, len(services)*3)
		for _, s := range services {
			values = append(values, "(?,?,?)")
			args = append(args, hotelID, s.Name, s.Price)
		}
		sqlStr := insertServicesPrefix + strings.Join(values, ",") + insertServicesOnDup
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return 0, err
		}
	}

	return hotelID, tx.Commit()
}

func (r *Repo) LogImportMiss(ctx context.Context, ref string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertImportMissSQL, ref, status, reason)
	return err
}

// -----------------------------------------------------------------------------
// ReservationRepository
// -----------------------------------------------------------------------------

func (r *Repo) CreateReservation(ctx context.Context, resv domain.Reservation) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, insertReservationSQL,
		resv.UserID, resv.HotelID, resv.RoomID, resv.CheckIn, resv.CheckOut,
		len(resv.PetIDs), valStr(resv.SpecialRequests), resv.TotalPrice, string(resv.Status))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(resv.PetIDs) > 0 {
		values := make([]string, 0, len(resv.PetIDs))
		args := make([]any, 0, len(resv.PetIDs)*2)
		for _, petID := range resv.PetIDs {
			values = append(values, "(?,?)")
			args = append(args, id, petID)
		}
		if _, err := tx.ExecContext(ctx, insertReservationPetsPrefix+strings.Join(values, ","), args...); err != nil {
			return 0, err
		}
	}
	if len(resv.ServiceIDs) > 0 {
		values := make([]string, 0, len(resv.ServiceIDs))
		args := make([]any, 0, len(resv.ServiceIDs)*2)
		for _, svcID := range resv.ServiceIDs {
			values = append(values, "(?,?)")
			args = append(args, id, svcID)
		}
		if _, err := tx.ExecContext(ctx, insertReservationServicesPrefix+strings.Join(values, ","), args...); err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

func (r *Repo) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	row := r.db.QueryRowContext(ctx, getReservationSQL, id)
	resv, err := scanReservation(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Reservation{}, domain.ErrNotFound
		}
		return domain.Reservation{}, err
	}
	if resv.PetIDs, err = r.idList(ctx, reservationPetsSQL, id); err != nil {
		return domain.Reservation{}, err
	}
	if resv.ServiceIDs, err = r.idList(ctx, reservationServicesSQL, id); err != nil {
		return domain.Reservation{}, err
	}
	return resv, nil
}

func (r *Repo) ListUserReservations(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	return r.listReservations(ctx, listUserReservationsSQL, userID)
}

func (r *Repo) ListHotelReservations(ctx context.Context, hotelID int64) ([]domain.Reservation, error) {
	return r.listReservations(ctx, listHotelReservationsSQL, hotelID)
}

func (r *Repo) listReservations(ctx context.Context, query string, arg int64) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		resv, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, resv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Attach pet/service ids after the row cursor is drained.
	for i := range out {
		if out[i].PetIDs, err = r.idList(ctx, reservationPetsSQL, out[i].ID); err != nil {
			return nil, err
		}
		if out[i].ServiceIDs, err = r.idList(ctx, reservationServicesSQL, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func scanReservation(scan func(...any) error) (domain.Reservation, error) {
	var resv domain.Reservation
	var special sql.NullString
	var status string
	if err := scan(&resv.ID, &resv.UserID, &resv.HotelID, &resv.RoomID,
		&resv.CheckIn, &resv.CheckOut, &special, &resv.TotalPrice, &status,
		&resv.CreatedAt, &resv.UpdatedAt); err != nil {
		return domain.Reservation{}, err
	}
	resv.SpecialRequests = scanStr(special)
	resv.Status = domain.ReservationStatus(status)
	return resv, nil
}

func (r *Repo) idList(ctx context.Context, query string, reservationID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateReservationStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) error {
	res, err := r.db.ExecContext(ctx, updateReservationStatusSQL, string(to), id, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row vanished or its status moved under us.
		var one int
		if err := r.db.QueryRowContext(ctx, reservationExistsSQL, id).Scan(&one); err != nil {
			if err == sql.ErrNoRows {
				return domain.ErrNotFound
			}
			return err
		}
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

func (r *Repo) OccupancyForRange(ctx context.Context, roomID int64, dr domain.DateRange) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, occupancyForRangeSQL, roomID, dr.CheckOut(), dr.CheckIn()).Scan(&n)
	return n, err
}
