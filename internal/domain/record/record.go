// Package record holds the inventory row types shared by the record store,
// the query engine and the transports.
package record

// Topic is one produced topic. Owner is the producing project.
type Topic struct {
	Owner string
	Topic string
}

// Consumer is one topic-consumption relationship. Owner is the consuming
// project.
type Consumer struct {
	Owner string
	Topic string
	Group string
}

// User is one row of the authentication table. Password is stored in plain
// text by the source dataset.
type User struct {
	ID       string
	Password string
}

// Joined is the left outer join of consumers onto topics. ConsumerGroup and
// ConsumerApp are empty when the topic has no registered consumer.
type Joined struct {
	Owner         string `json:"app_owner"`
	Topic         string `json:"topic_name"`
	ConsumerGroup string `json:"consumer_group_id"`
	ConsumerApp   string `json:"consumer_app"`
}

// Filter is a conjunction of equality predicates. Empty fields impose no
// constraint.
type Filter struct {
	Owner       string `json:"app_owner,omitempty"`
	Topic       string `json:"topic_name,omitempty"`
	ConsumerApp string `json:"consumer_app,omitempty"`
}

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool {
	return f.Owner == "" && f.Topic == "" && f.ConsumerApp == ""
}

// Matches reports whether the row satisfies every set predicate.
func (f Filter) Matches(r Joined) bool {
	if f.Owner != "" && r.Owner != f.Owner {
		return false
	}
	if f.Topic != "" && r.Topic != f.Topic {
		return false
	}
	if f.ConsumerApp != "" && r.ConsumerApp != f.ConsumerApp {
		return false
	}
	return true
}
