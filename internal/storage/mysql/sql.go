package mysql

const insertBookingSQL = `
INSERT INTO bookings
  (reference, consultation_type, name, email, phone, booking_date, time_slot, timezone,
   notes, consent, locale, status, created_at, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// booking_date is formatted in SQL so scanning works with or without parseTime.
const bookingColumns = `
  reference, consultation_type, name, email, phone,
  DATE_FORMAT(booking_date, '%Y-%m-%d'), time_slot, timezone,
  notes, consent, locale, status, created_at
`

const getBookingSQL = `SELECT` + bookingColumns + `FROM bookings WHERE reference = ?`

const listBookingsByDateSQL = `SELECT` + bookingColumns + `
FROM bookings
WHERE booking_date = ?
ORDER BY time_slot, created_at
LIMIT ?`

const updateBookingStatusSQL = `
UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE reference = ?
`
