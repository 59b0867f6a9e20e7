package postgres

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := map[string]string{
		"postgresql+asyncpg://u:p@db:5432/app":  "postgresql://u:p@db:5432/app",
		"postgres+psycopg2://u:p@db/app":        "postgres://u:p@db/app",
		"  postgres://u:p@db/app?sslmode=off  ": "postgres://u:p@db/app?sslmode=off",
		"host=db user=u dbname=app":             "host=db user=u dbname=app",
	}
	for in, want := range cases {
		if got := normalizeDSN(in); got != want {
			t.Errorf("normalizeDSN(%q) = %q, want %q", in, got, want)
		}
	}
}
