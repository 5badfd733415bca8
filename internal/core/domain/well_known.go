package domain

// SecretClass groups well-known accounts that share one expected secret.
type SecretClass string

const (
	SecretClassAdmin SecretClass = "admin"
	SecretClassUser  SecretClass = "user"
)

// WellKnownAccount is an allow-list entry enforced by the startup normalizer.
type WellKnownAccount struct {
	Email string
	Class SecretClass
}

// WellKnownSet maps normalized emails to their expected secret.
// Build it with NewWellKnownSet; the zero value matches nothing.
type WellKnownSet struct {
	classes map[string]SecretClass
	secrets map[SecretClass]string
}

// NewWellKnownSet builds the allow-list. Entries whose class has no secret are dropped.
func NewWellKnownSet(entries []WellKnownAccount, secrets map[SecretClass]string) WellKnownSet {
	s := WellKnownSet{
		classes: make(map[string]SecretClass, len(entries)),
		secrets: make(map[SecretClass]string, len(secrets)),
	}
	for class, secret := range secrets {
		if secret != "" {
			s.secrets[class] = secret
		}
	}
	for _, e := range entries {
		email := NormalizeEmail(e.Email)
		if email == "" {
			continue
		}
		if _, ok := s.secrets[e.Class]; !ok {
			continue
		}
		s.classes[email] = e.Class
	}
	return s
}

// Lookup returns the class and expected secret for email, if it is well-known.
func (s WellKnownSet) Lookup(email string) (SecretClass, string, bool) {
	class, ok := s.classes[NormalizeEmail(email)]
	if !ok {
		return "", "", false
	}
	return class, s.secrets[class], true
}

// Secret returns the configured secret for class.
func (s WellKnownSet) Secret(class SecretClass) (string, bool) {
	secret, ok := s.secrets[class]
	return secret, ok
}

// Len returns the number of enforced emails.
func (s WellKnownSet) Len() int {
	return len(s.classes)
}
