package odbc

import "testing"

func TestConnString(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want string
	}{
		{
			name: "dsn",
			in:   Params{DSN: "CGM", TrustCert: true, Timeout: 5},
			want: "DSN=CGM;TrustServerCertificate=yes;LoginTimeout=5",
		},
		{
			name: "host",
			in:   Params{Host: "sql01", Database: "BancoCGM", User: "cgm", Password: "s3cr;t", TrustCert: true, Timeout: 5},
			want: "Driver={ODBC Driver 18 for SQL Server};Server=sql01;Database=BancoCGM;UID=cgm;PWD={s3cr;t};TrustServerCertificate=yes;LoginTimeout=5",
		},
		{
			name: "integrated",
			in:   Params{Driver: "SQL Server", Host: "sql01", Database: "BancoCGM"},
			want: "Driver={SQL Server};Server=sql01;Database=BancoCGM;Trusted_Connection=yes;TrustServerCertificate=no",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConnString(tt.in); got != tt.want {
				t.Errorf("ConnString() =\n %s\nwant\n %s", got, tt.want)
			}
		})
	}
}
