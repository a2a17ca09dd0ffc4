package transport

type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

type ProfileUpdateRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

type TaskRequest struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	TaskTime         string  `json:"task_time"`
	TaskDate         string  `json:"task_date"`
	EstimatedPayRate float64 `json:"estimated_pay_rate"`
	PlaceOfWork      string  `json:"place_of_work"`
	WorkType         string  `json:"work_type"`
	PeopleNeeded     int     `json:"people_needed"`
}

type ValidateCompletionRequest struct {
	TaskID string `json:"task_id"`
	OTP    string `json:"otp"`
}
