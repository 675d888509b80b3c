package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noticiero/cms/internal/sessions"
)

// pageData decorates template data with the pieces every page needs: drained
// flash messages, the current year and whether an administrator is logged in.
func pageData(c *gin.Context, store *sessions.Store, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = store.Flashes(c.Writer, c.Request)
	data["Year"] = time.Now().Year()
	_, loggedIn := store.AdminID(c.Request)
	data["LoggedIn"] = loggedIn
	return data
}
