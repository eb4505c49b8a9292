// Package inventory is the record store: three immutable CSV-backed tables
// (topic inventory, consumer registrations, user authentication) loaded once
// at startup, plus the cached left outer join of consumers onto topics.
package inventory

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/topiclens/internal/domain"
	"github.com/kailas-cloud/topiclens/internal/domain/record"
)

// Store holds the loaded datasets. All data is read-only after Load, so the
// store is safe for concurrent use without locking.
type Store struct {
	topics    []record.Topic
	consumers []record.Consumer
	users     []record.User
	joined    []record.Joined
}

// Load reads the datasets from CSV files and computes the join. authPath may
// be empty, in which case login is not configured.
func Load(inventoryPath, consumerPath, authPath string) (*Store, error) {
	topics, err := readTopics(inventoryPath)
	if err != nil {
		return nil, fmt.Errorf("load inventory dataset: %w", err)
	}

	consumers, err := readConsumers(consumerPath)
	if err != nil {
		return nil, fmt.Errorf("load consumer dataset: %w", err)
	}

	var users []record.User
	if authPath != "" {
		users, err = readUsers(authPath)
		if err != nil {
			return nil, fmt.Errorf("load authentication dataset: %w", err)
		}
	}

	s := &Store{topics: topics, consumers: consumers, users: users}
	s.joined = leftJoin(topics, consumers)
	return s, nil
}

// leftJoin joins consumers onto topics on topic name. Topics without a
// consumer produce one row with empty consumer fields.
func leftJoin(topics []record.Topic, consumers []record.Consumer) []record.Joined {
	byTopic := make(map[string][]record.Consumer, len(consumers))
	for _, c := range consumers {
		byTopic[c.Topic] = append(byTopic[c.Topic], c)
	}

	joined := make([]record.Joined, 0, len(topics))
	for _, t := range topics {
		matches := byTopic[t.Topic]
		if len(matches) == 0 {
			joined = append(joined, record.Joined{Owner: t.Owner, Topic: t.Topic})
			continue
		}
		for _, c := range matches {
			joined = append(joined, record.Joined{
				Owner:         t.Owner,
				Topic:         t.Topic,
				ConsumerGroup: c.Group,
				ConsumerApp:   c.Owner,
			})
		}
	}
	return joined
}

// Joined returns the cached join in table row order. Callers must not
// mutate the returned slice.
func (s *Store) Joined() []record.Joined {
	return s.joined
}

// Owners returns the distinct topic owners, ascending.
func (s *Store) Owners() []string {
	seen := make(map[string]struct{}, len(s.topics))
	owners := make([]string, 0, len(s.topics))
	for _, t := range s.topics {
		if _, ok := seen[t.Owner]; ok {
			continue
		}
		seen[t.Owner] = struct{}{}
		owners = append(owners, t.Owner)
	}
	sort.Strings(owners)
	return owners
}

// Topics returns the distinct topics produced by owner, ascending.
func (s *Store) Topics(owner string) []string {
	seen := make(map[string]struct{})
	topics := make([]string, 0)
	for _, t := range s.topics {
		if t.Owner != owner {
			continue
		}
		if _, ok := seen[t.Topic]; ok {
			continue
		}
		seen[t.Topic] = struct{}{}
		topics = append(topics, t.Topic)
	}
	sort.Strings(topics)
	return topics
}

// Consumers returns the distinct consumer apps, ascending.
func (s *Store) Consumers() []string {
	seen := make(map[string]struct{}, len(s.consumers))
	apps := make([]string, 0, len(s.consumers))
	for _, c := range s.consumers {
		if _, ok := seen[c.Owner]; ok {
			continue
		}
		seen[c.Owner] = struct{}{}
		apps = append(apps, c.Owner)
	}
	sort.Strings(apps)
	return apps
}

// Authenticate checks username and password against the authentication
// table. The comparison is plain equality: the source dataset stores
// passwords unhashed, a known defect of the upstream system.
func (s *Store) Authenticate(username, password string) (bool, error) {
	if s.users == nil {
		return false, domain.ErrNotConfigured
	}
	for _, u := range s.users {
		if u.ID == username && u.Password == password {
			return true, nil
		}
	}
	return false, nil
}
