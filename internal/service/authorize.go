package service

import "github.com/olimp/hotel-booking/internal/model"

// Authorize returns the identity of an authenticated session. It has no
// side effects and must run before the request body is looked at.
func Authorize(sess *model.Session) (model.Session, error) {
	if !sess.Authenticated() {
		return model.Session{}, ErrUnauthenticated
	}
	return *sess, nil
}
