package service

import (
	"net/http"
)

// cookieJar binds biz.CookieJar to one request/response pair.
type cookieJar struct {
	r       *http.Request
	w       http.ResponseWriter
	secure  bool
	deleted map[string]bool
}

func newCookieJar(r *http.Request, w http.ResponseWriter, secure bool) *cookieJar {
	return &cookieJar{r: r, w: w, secure: secure, deleted: map[string]bool{}}
}

func (j *cookieJar) Get(name string) (string, bool) {
	if j.deleted[name] {
		return "", false
	}
	c, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (j *cookieJar) Set(c *http.Cookie) {
	delete(j.deleted, c.Name)
	http.SetCookie(j.w, c)
}

func (j *cookieJar) Delete(name string) {
	j.deleted[name] = true
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
