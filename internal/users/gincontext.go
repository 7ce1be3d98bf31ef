package users

import "github.com/gin-gonic/gin"

const ginKeyCurrentUser = "current_user"

// SetCurrent stores the authenticated account on the Gin context. The auth
// middleware is the only writer.
func SetCurrent(c *gin.Context, u *User) {
	c.Set(ginKeyCurrentUser, u)
}

// Current returns the authenticated account, if any.
func Current(c *gin.Context) (*User, bool) {
	v, ok := c.Get(ginKeyCurrentUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*User)
	return u, ok && u != nil
}
