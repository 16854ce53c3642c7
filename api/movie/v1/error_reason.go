package v1

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/errors"
)

// Error reasons returned in the "reason" field of error responses.
const (
	ErrorReason_MOVIE_NOT_FOUND      = "MOVIE_NOT_FOUND"
	ErrorReason_GENRE_NOT_FOUND      = "GENRE_NOT_FOUND"
	ErrorReason_REVIEW_NOT_FOUND     = "REVIEW_NOT_FOUND"
	ErrorReason_USER_NOT_FOUND       = "USER_NOT_FOUND"
	ErrorReason_GENRE_EXISTS         = "GENRE_EXISTS"
	ErrorReason_USERNAME_TAKEN       = "USERNAME_TAKEN"
	ErrorReason_FORBIDDEN            = "FORBIDDEN"
	ErrorReason_UNAUTHORIZED         = "UNAUTHORIZED"
	ErrorReason_UNPROCESSABLE_ENTITY = "UNPROCESSABLE_ENTITY"
)

func IsMovieNotFound(err error) bool {
	return isReason(err, ErrorReason_MOVIE_NOT_FOUND, 404)
}

func ErrorMovieNotFound(format string, args ...interface{}) *errors.Error {
	return errors.New(404, ErrorReason_MOVIE_NOT_FOUND, fmt.Sprintf(format, args...))
}

func IsGenreNotFound(err error) bool {
	return isReason(err, ErrorReason_GENRE_NOT_FOUND, 404)
}

func ErrorGenreNotFound(format string, args ...interface{}) *errors.Error {
	return errors.New(404, ErrorReason_GENRE_NOT_FOUND, fmt.Sprintf(format, args...))
}

func IsReviewNotFound(err error) bool {
	return isReason(err, ErrorReason_REVIEW_NOT_FOUND, 404)
}

func ErrorReviewNotFound(format string, args ...interface{}) *errors.Error {
	return errors.New(404, ErrorReason_REVIEW_NOT_FOUND, fmt.Sprintf(format, args...))
}

func IsUserNotFound(err error) bool {
	return isReason(err, ErrorReason_USER_NOT_FOUND, 404)
}

func ErrorUserNotFound(format string, args ...interface{}) *errors.Error {
	return errors.New(404, ErrorReason_USER_NOT_FOUND, fmt.Sprintf(format, args...))
}

func IsGenreExists(err error) bool {
	return isReason(err, ErrorReason_GENRE_EXISTS, 409)
}

func ErrorGenreExists(format string, args ...interface{}) *errors.Error {
	return errors.New(409, ErrorReason_GENRE_EXISTS, fmt.Sprintf(format, args...))
}

func IsUsernameTaken(err error) bool {
	return isReason(err, ErrorReason_USERNAME_TAKEN, 409)
}

func ErrorUsernameTaken(format string, args ...interface{}) *errors.Error {
	return errors.New(409, ErrorReason_USERNAME_TAKEN, fmt.Sprintf(format, args...))
}

func IsForbidden(err error) bool {
	return isReason(err, ErrorReason_FORBIDDEN, 403)
}

func ErrorForbidden(format string, args ...interface{}) *errors.Error {
	return errors.New(403, ErrorReason_FORBIDDEN, fmt.Sprintf(format, args...))
}

func IsUnauthorized(err error) bool {
	return isReason(err, ErrorReason_UNAUTHORIZED, 401)
}

func ErrorUnauthorized(format string, args ...interface{}) *errors.Error {
	return errors.New(401, ErrorReason_UNAUTHORIZED, fmt.Sprintf(format, args...))
}

func IsUnprocessableEntity(err error) bool {
	return isReason(err, ErrorReason_UNPROCESSABLE_ENTITY, 422)
}

func ErrorUnprocessableEntity(format string, args ...interface{}) *errors.Error {
	return errors.New(422, ErrorReason_UNPROCESSABLE_ENTITY, fmt.Sprintf(format, args...))
}

func isReason(err error, reason string, code int) bool {
	if err == nil {
		return false
	}
	e := errors.FromError(err)
	return e.Reason == reason && e.Code == int32(code)
}
