package chi

import "github.com/kailas-cloud/topiclens/internal/domain/record"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// aiSearchRequest carries the free-text query plus the optional structured
// filter rendered into the retrieval queries.
type aiSearchRequest struct {
	Query       string `json:"query"`
	Owner       string `json:"app_owner"`
	Topic       string `json:"topic_name"`
	ConsumerApp string `json:"consumer_app"`
}

func (r aiSearchRequest) Filter() record.Filter {
	return record.Filter{
		Owner:       r.Owner,
		Topic:       r.Topic,
		ConsumerApp: r.ConsumerApp,
	}
}

type aiSearchResponse struct {
	Answer string `json:"answer"`
}

type dataResponse struct {
	Data any `json:"data"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}
