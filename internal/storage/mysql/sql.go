package mysql

// -----------------------------------------------------------------------------
// USERS & PETS
// -----------------------------------------------------------------------------

const insertUserSQL = `
INSERT INTO users (email, password_hash, name, phone, role)
VALUES (?, ?, ?, ?, ?)
`

const getUserSQL = `
SELECT id, email, password_hash, name, phone, role FROM users WHERE id = ?
`

const getUserByEmailSQL = `
SELECT id, email, password_hash, name, phone, role FROM users WHERE email = ?
`

const updateProfileSQL = `
UPDATE users SET name = ?, phone = ? WHERE id = ?
`

const insertPetSQL = `
INSERT INTO pets (owner_id, name, species, breed, age_years, notes, photo_url)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const updatePetSQL = `
UPDATE pets SET name = ?, species = ?, breed = ?, age_years = ?, notes = ?, photo_url = ?
WHERE id = ?
`

const deletePetSQL = `
DELETE FROM pets WHERE id = ? AND owner_id = ?
`

const getPetSQL = `
SELECT id, owner_id, name, species, breed, age_years, notes, photo_url FROM pets WHERE id = ?
`

const listPetsSQL = `
SELECT id, owner_id, name, species, breed, age_years, notes, photo_url
FROM pets WHERE owner_id = ? ORDER BY id
`

// -----------------------------------------------------------------------------
// CATALOG
// -----------------------------------------------------------------------------

const insertHotelSQL = `
INSERT INTO hotels (owner_id, source_ref, name, city, address, description, phone, images)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels SET name = ?, city = ?, address = ?, description = ?, phone = ?, images = ?,
  updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const deleteHotelSQL = `
DELETE FROM hotels WHERE id = ?
`

const getHotelSQL = `
SELECT id, owner_id, source_ref, name, city, address, description, phone, images
FROM hotels WHERE id = ?
`

const listRoomsSQL = `
SELECT id, hotel_id, name, price_per_night, max_pets, description, images
FROM rooms WHERE hotel_id = ? ORDER BY id
`

const listServicesSQL = `
SELECT id, hotel_id, name, price FROM services WHERE hotel_id = ? ORDER BY id
`

const insertRoomSQL = `
INSERT INTO rooms (hotel_id, name, price_per_night, max_pets, description, images)
VALUES (?, ?, ?, ?, ?, ?)
`

const updateRoomSQL = `
UPDATE rooms SET name = ?, price_per_night = ?, max_pets = ?, description = ?, images = ?
WHERE id = ?
`

const deleteRoomSQL = `
DELETE FROM rooms WHERE id = ?
`

const getRoomSQL = `
SELECT id, hotel_id, name, price_per_night, max_pets, description, images
FROM rooms WHERE id = ?
`

const insertServiceSQL = `
INSERT INTO services (hotel_id, name, price) VALUES (?, ?, ?)
`

const updateServiceSQL = `
UPDATE services SET name = ?, price = ? WHERE id = ? AND hotel_id = ?
`

const deleteServiceSQL = `
DELETE FROM services WHERE id = ?
`

// -----------------------------------------------------------------------------
// PARTNER IMPORT
// -----------------------------------------------------------------------------

// Imported hotels are keyed by their partner feed ref; re-imports update in place.
const upsertImportedHotelSQL = `
INSERT INTO hotels (owner_id, source_ref, name, city, address, description, phone, images)
VALUES (NULL, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name        = VALUES(name),
  city        = VALUES(city),
  address     = VALUES(address),
  description = VALUES(description),
  phone       = VALUES(phone),
  images      = VALUES(images),
  updated_at  = CURRENT_TIMESTAMP
`

const hotelIDBySourceRefSQL = `
SELECT id FROM hotels WHERE source_ref = ?
`

// Rooms and services are upserted per (hotel_id, name); reservations keep
// referencing the surviving row across re-imports.
const insertRoomsPrefix = "INSERT INTO rooms\n  (hotel_id, name, price_per_night, max_pets, description, images)\nVALUES "

const insertRoomsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  price_per_night = VALUES(price_per_night),\n" +
	"  max_pets        = VALUES(max_pets),\n" +
	"  description     = VALUES(description),\n" +
	"  images          = VALUES(images)\n"

const insertServicesPrefix = "INSERT INTO services\n  (hotel_id, name, price)\nVALUES "

const insertServicesOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  price = VALUES(price)\n"

const insertImportMissSQL = `
INSERT INTO import_misses (ref, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE seen_at = CURRENT_TIMESTAMP, http_status = VALUES(http_status), reason = VALUES(reason)
`

// -----------------------------------------------------------------------------
// RESERVATIONS
// -----------------------------------------------------------------------------

const insertReservationSQL = `
INSERT INTO reservations
  (user_id, hotel_id, room_id, check_in, check_out, pet_count, special_requests, total_price, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertReservationPetsPrefix = "INSERT INTO reservation_pets (reservation_id, pet_id) VALUES "

const insertReservationServicesPrefix = "INSERT INTO reservation_services (reservation_id, service_id) VALUES "

const getReservationSQL = `
SELECT id, user_id, hotel_id, room_id, check_in, check_out, special_requests,
       total_price, status, created_at, updated_at
FROM reservations WHERE id = ?
`

const listUserReservationsSQL = `
SELECT id, user_id, hotel_id, room_id, check_in, check_out, special_requests,
       total_price, status, created_at, updated_at
FROM reservations WHERE user_id = ?
ORDER BY created_at DESC, id DESC
`

const listHotelReservationsSQL = `
SELECT id, user_id, hotel_id, room_id, check_in, check_out, special_requests,
       total_price, status, created_at, updated_at
FROM reservations WHERE hotel_id = ?
ORDER BY created_at DESC, id DESC
`

const reservationPetsSQL = `
SELECT pet_id FROM reservation_pets WHERE reservation_id = ? ORDER BY pet_id
`

const reservationServicesSQL = `
SELECT service_id FROM reservation_services WHERE reservation_id = ? ORDER BY service_id
`

// Compare-and-set: only moves the row when the stored status still matches.
const updateReservationStatusSQL = `
UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND status = ?
`

const reservationExistsSQL = `
SELECT 1 FROM reservations WHERE id = ?
`

// Pets already booked into the room for windows overlapping [check_in, check_out).
// Half-open interval overlap: existing.check_in < new.check_out AND
// existing.check_out > new.check_in. Aligns with the index on
// (room_id, status, check_in, check_out).
const occupancyForRangeSQL = `
SELECT COALESCE(SUM(pet_count), 0)
FROM reservations
WHERE room_id = ?
  AND status IN ('pending', 'confirmed')
  AND check_in < ?
  AND check_out > ?
`
