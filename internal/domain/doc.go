// Package domain contains the core entities of the application and their
// validation rules. Types in this package are persistence-agnostic; stores
// and services depend on domain, never the other way around.
package domain
