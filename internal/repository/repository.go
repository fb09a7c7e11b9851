package repository

// Package repository contains data access layer abstractions.
// Implementations can live in subpackages (e.g., postgres, memory) inside this directory.

type Repository interface{}
