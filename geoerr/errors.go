// Package geoerr defines the error taxonomy returned at the module's API
// boundary: parse errors for ref-views built over an external buffer, and
// query-domain errors for out-of-range requests. Construction-contract
// violations (a builder used incorrectly) are not part of this taxonomy —
// they indicate a programmer error against an in-progress, not-yet-valid
// buffer, and per the module's error design they panic rather than return a
// recoverable error.
package geoerr

import "fmt"

// WrongMagic reports that a buffer's first byte did not match the expected
// magic for the index kind being parsed.
type WrongMagic struct {
	Got, Expected byte
}

func (e *WrongMagic) Error() string {
	return fmt.Sprintf("geoerr: wrong magic byte: got 0x%02X, expected 0x%02X", e.Got, e.Expected)
}

// WrongVersion reports that a buffer's format-version nibble did not match
// the version this code reads.
type WrongVersion struct {
	Got, Expected byte
}

func (e *WrongVersion) Error() string {
	return fmt.Sprintf("geoerr: wrong format version: got %d, expected %d", e.Got, e.Expected)
}

// WrongCoordType reports that a buffer's coordinate-type tag did not match
// the type the caller asked to parse it as.
type WrongCoordType struct {
	Got, Expected byte
}

func (e *WrongCoordType) Error() string {
	return fmt.Sprintf("geoerr: wrong coordinate type tag: got %d, expected %d", e.Got, e.Expected)
}

// LengthMismatch reports that a buffer's length didn't match the length
// computed from its own header fields.
type LengthMismatch struct {
	Got, Expected int
}

func (e *LengthMismatch) Error() string {
	return fmt.Sprintf("geoerr: buffer length mismatch: got %d bytes, expected %d", e.Got, e.Expected)
}

// LevelOutOfRange reports a boxes-at-level request for a level that doesn't
// exist in the tree.
type LevelOutOfRange struct {
	Level, NumLevels int
}

func (e *LevelOutOfRange) Error() string {
	return fmt.Sprintf("geoerr: level %d out of range, tree has %d levels", e.Level, e.NumLevels)
}

// ConstructionViolation panics on a misuse of a builder: wrong add count,
// double finish, or an out-of-range node_size. Implementations call this
// instead of returning an error because the alternative is handing back a
// buffer whose header lies about its own contents.
func ConstructionViolation(format string, args ...any) {
	panic(fmt.Sprintf("geoidx: construction contract violation: "+format, args...))
}
