package types

import (
	"net"
	"regexp"

	"github.com/gofrs/uuid"

	"github.com/ezachrisen/amino/schema"
)

// emailPattern is intentionally permissive: it rejects obviously malformed
// addresses without attempting full RFC 5322 compliance, matching what a
// "format: email" constraint is expected to catch in practice.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func registerBuiltins(r *Registry) {
	// RegisterType only fails on name collisions. Built-ins are registered
	// before any caller-registered type, so the one collision possible here
	// is a schema struct sharing a built-in's name; the struct then keeps
	// the name and that built-in is not registered.
	_ = r.RegisterType("ipv4", schema.KindStr, validateIPv4)
	_ = r.RegisterType("ipv6", schema.KindStr, validateIPv6)
	_ = r.RegisterType("cidr", schema.KindStr, validateCIDR)
	_ = r.RegisterType("email", schema.KindStr, validateEmail)
	_ = r.RegisterType("uuid", schema.KindStr, validateUUID)
}

func validateIPv4(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}

func validateIPv6(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() == nil
}

func validateCIDR(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	_, _, err := net.ParseCIDR(s)
	return err == nil
}

func validateEmail(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	return emailPattern.MatchString(s)
}

func validateUUID(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	_, err := uuid.FromString(s)
	return err == nil
}
