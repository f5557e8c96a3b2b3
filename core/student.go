package core

import (
	"fmt"
	"strings"
)

// Student is a library user identified by its email address.
type Student struct {
	Name  string
	Email EmailString
	Phone string
}

// BuildStudent creates a validated Student.
func BuildStudent(name string, email EmailString, phone string) (Student, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return Student{}, fmt.Errorf("%w: name must not be empty", ErrInvalidStudent)
	}

	if !strings.Contains(email, "@") {
		return Student{}, fmt.Errorf("%w: email %q is not valid", ErrInvalidStudent, email)
	}

	return Student{
		Name:  name,
		Email: email,
		Phone: strings.TrimSpace(phone),
	}, nil
}

// StudentWithEmail creates a lookup-only Student that carries just the key.
func StudentWithEmail(email EmailString) Student {
	return Student{Email: strings.TrimSpace(email)}
}

// Key returns the normalized email used for equality.
func (s Student) Key() string {
	return normalizeKey(s.Email)
}

// Equal reports whether both students share the same email.
func (s Student) Equal(other Student) bool {
	return s.Key() == other.Key()
}

// Clone returns a deep copy.
func (s Student) Clone() Student {
	return s
}

func (s Student) String() string {
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}
