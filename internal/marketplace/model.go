package marketplace

// User is the partial account record the API returns with logins and posts.
type User struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email,omitempty"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

// Post represents a service offer or request listed by a user
type Post struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	ServiceType  string `json:"service_type"`
	Salary       string `json:"salary"`
	City         string `json:"city"`
	Area         string `json:"area"`
	Description  string `json:"description"`
	WorkSchedule string `json:"work_schedule"`
	UserID       int64  `json:"user_id"`
	User         *User  `json:"user,omitempty"`
}

// NewPost is the payload of POST /posts.
// Required fields are checked client-side before any request is made.
type NewPost struct {
	Title        string `json:"title" form:"title" validate:"required"`
	ServiceType  string `json:"service_type" form:"service_type" validate:"required"`
	Salary       string `json:"salary" form:"salary" validate:"required"`
	City         string `json:"city" form:"city" validate:"required"`
	Area         string `json:"area" form:"area"`
	Description  string `json:"description" form:"description" validate:"required"`
	WorkSchedule string `json:"work_schedule" form:"work_schedule"`
	UserID       int64  `json:"user_id" form:"-"`
}

type Credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginResult is the body of POST /users/login, for both outcomes.
type LoginResult struct {
	Success bool   `json:"success"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}
