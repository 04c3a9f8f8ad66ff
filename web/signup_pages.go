package web

import (
	"net/http"
	"net/url"

	"signupform/models"
	"signupform/web/api"
	"signupform/web/pages/auth"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
)

// ShowCreateUser renders an empty create-user form
// GET /signup
func ShowCreateUser(c rweb.Context) error {
	form := models.NewForm(nil)
	c.Response().SetHeader("Content-Type", "text/html; charset=utf-8")
	return c.WriteHTML(auth.NewCreateUserPage(form.Snapshot()).Render())
}

// SubmitCreateUser handles the non-JS form post. Each request gets its own
// Form, so the in-flight flag is per submission; the page is re-rendered
// with the errors unless the account was created.
// POST /signup
func SubmitCreateUser(c rweb.Context) error {
	sub := api.GetSubmitter()
	if sub == nil {
		c.SetStatus(http.StatusServiceUnavailable)
		return c.WriteHTML("<h1>503 - Signup is not configured</h1>")
	}

	values, err := url.ParseQuery(string(c.Request().Body()))
	if err != nil {
		logger.LogErr(err, "failed to parse create user form")
		c.SetStatus(http.StatusBadRequest)
		return c.WriteHTML("<h1>400 - Invalid form submission</h1>")
	}

	var created bool
	form := models.NewForm(func(ok bool) { created = ok })
	form.SetUsername(values.Get("username"))
	form.SetPassword(values.Get("password"))

	submitCtx, cancel := api.SubmitContext()
	defer cancel()

	res := form.Submit(submitCtx, sub)
	if created {
		return seeOther(c, "/signup/created?u="+url.QueryEscape(form.Snapshot().Username))
	}

	logger.Debug("Create user form re-rendered", "result", res.Kind.String())

	if res.Kind == models.ResultRefused {
		c.SetStatus(http.StatusUnprocessableEntity)
	} else {
		c.SetStatus(http.StatusOK)
	}
	c.Response().SetHeader("Content-Type", "text/html; charset=utf-8")
	return c.WriteHTML(auth.NewCreateUserPage(form.Snapshot()).Render())
}

// ShowUserCreated is where a successful submission lands
// GET /signup/created
func ShowUserCreated(c rweb.Context) error {
	c.Response().SetHeader("Content-Type", "text/html; charset=utf-8")
	return c.WriteHTML(auth.NewUserCreatedPage(c.Request().QueryParam("u")).Render())
}

func seeOther(c rweb.Context, location string) error {
	c.Response().SetHeader("Location", location)
	c.SetStatus(http.StatusSeeOther)
	return nil
}
