package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/fburn/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Entry_ID,Date,Drive_Profile,AC_Mode,Liters_Added,Cost_per_Liter,Full_Tank,Odometer,State_Toll,Private_Toll,Service_Cost,Service_Desc,Timestamp_Created,Timestamp_Edited"

// writeLog creates a temp CSV log and returns a DiscoveredFile for it.
func writeLog(t *testing.T, lines ...string) DiscoveredFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swift.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return DiscoveredFile{Path: path, Vehicle: "swift"}
}

func TestParseFile_Rows(t *testing.T) {
	df := writeLog(t,
		header,
		"1,2025-01-05,City,Mostly AC,30,102.5,True,12000,0,0,0,,2025-01-05 09:12:44.123456,",
		"2,2025-01-19,Highway,No AC,20.5,103,False,12380,150,60,0,,2025-01-19T18:00:00Z,2025-01-20T08:30:00Z",
	)

	res := ParseFile(df)
	require.NoError(t, res.Err)
	assert.Zero(t, res.ParseErrors)
	require.Len(t, res.Entries, 2)

	first := res.Entries[0]
	assert.True(t, first.FullTank)
	assert.Equal(t, 30.0, first.LitersAdded)
	assert.Equal(t, 12000.0, first.Odometer)
	assert.Equal(t, "swift", first.Vehicle)
	assert.Equal(t, df.Path, first.FilePath)
	assert.False(t, first.Edited())

	second := res.Entries[1]
	assert.False(t, second.FullTank, "partial fill")
	assert.Equal(t, 210.0, second.TollCost())
	assert.True(t, second.Edited())
}

func TestParseFile_MalformedRowsCounted(t *testing.T) {
	df := writeLog(t,
		header,
		"1,2025-01-05,City,Mixed,30,100,true,1000,0,0,0,,,",
		"x,2025-01-06,City,Mixed,30,100,true,1000,0,0,0,,,",
		"2,not-a-date,City,Mixed,30,100,true,1400,0,0,0,,,",
		"3,2025-01-07,City,Mixed,-5,100,true,1800,0,0,0,,,",
		"4,2025-01-08,City,Mixed,30,100,maybe,2200,0,0,0,,,",
		"5,2025-01-09,City,Mixed,30",
	)

	res := ParseFile(df)
	require.NoError(t, res.Err)
	assert.Len(t, res.Entries, 1)
	assert.Equal(t, 5, res.ParseErrors)
}

func TestParseFile_BlankAmountsAreZero(t *testing.T) {
	df := writeLog(t,
		header,
		"1,2025-01-05,City,Mixed,30,100,1,1000,,NaN,,,,",
	)

	res := ParseFile(df)
	require.NoError(t, res.Err)
	require.Len(t, res.Entries, 1)
	e := res.Entries[0]
	assert.Zero(t, e.StateToll)
	assert.Zero(t, e.PrivateToll)
	assert.Zero(t, e.ServiceCost)
}

func TestParseFile_BadHeader(t *testing.T) {
	res := ParseFile(writeLog(t, "id,date,liters", "1,2025-01-01,20"))
	assert.ErrorIs(t, res.Err, ErrBadHeader)
}

func TestParseFile_EmptyFile(t *testing.T) {
	res := ParseFile(writeLog(t))
	assert.NoError(t, res.Err)
	assert.Empty(t, res.Entries)
}

func TestParseFile_Missing(t *testing.T) {
	res := ParseFile(DiscoveredFile{Path: filepath.Join(t.TempDir(), "nope.csv")})
	assert.Error(t, res.Err)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "swift.csv")
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []model.Entry{
		{
			ID: 1, Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			DriveProfile: model.ProfileCity, ACMode: model.ACMixed,
			LitersAdded: 31.25, CostPerLiter: 104.7, FullTank: true, Odometer: 15230.5,
			CreatedAt: created,
		},
		{
			ID: 2, Date: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			DriveProfile: model.ProfileHighway, ACMode: model.ACNone,
			LitersAdded: 12, CostPerLiter: 105, Odometer: 15600,
			StateToll: 95, ServiceCost: 2400, ServiceDesc: "oil change, filter",
			CreatedAt: created, EditedAt: created.Add(48 * time.Hour),
		},
	}

	require.NoError(t, WriteFile(path, entries))

	res := ParseFile(DiscoveredFile{Path: path, Vehicle: "swift"})
	require.NoError(t, res.Err)
	require.Zero(t, res.ParseErrors)
	require.Len(t, res.Entries, 2)

	assert.Equal(t, 15230.5, res.Entries[0].Odometer)
	assert.True(t, res.Entries[0].FullTank)
	got := res.Entries[1]
	assert.Equal(t, "oil change, filter", got.ServiceDesc)
	assert.Equal(t, 95.0, got.StateToll)
	assert.True(t, got.EditedAt.Equal(entries[1].EditedAt))

	// no temp files left behind
	files, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"swift.csv", "activa.CSV", ".fburn-123.csv", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(header+"\n"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.csv"), 0o750))

	files, err := ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "activa", files[0].Vehicle)
	assert.Equal(t, "swift", files[1].Vehicle)
	assert.Equal(t, 2, CountVehicles(files))
}

func TestScanDir_Missing(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "missing"))
	assert.NoError(t, err)
	assert.Nil(t, files)
}

func FuzzParseRecord(f *testing.F) {
	f.Add("1,2025-01-05,City,Mixed,30,100,true,1000,0,0,0,,,")
	f.Add("x,,,,,,,,,,,,,")
	f.Add(`7,2025-02-30,"Highway",No AC,1e309,NaN,yes,-1,,,,"a ""b""",2025-01-01 00:00:00,`)

	f.Fuzz(func(t *testing.T, line string) {
		res := Parse(strings.NewReader(header+"\n"+line+"\n"), "fuzz")
		if res.Err != nil {
			return
		}
		for _, e := range res.Entries {
			require.GreaterOrEqual(t, e.LitersAdded, 0.0, "liters in %+v", e)
			require.GreaterOrEqual(t, e.Odometer, 0.0, "odometer in %+v", e)
		}
	})
}

func TestResolveVehicle(t *testing.T) {
	files := []DiscoveredFile{
		{Path: "/logs/Swift.csv", Vehicle: "Swift"},
		{Path: "/logs/swift-old.csv", Vehicle: "swift-old"},
		{Path: "/logs/activa.csv", Vehicle: "activa"},
	}

	tests := []struct {
		query   string
		want    string
		wantErr error
	}{
		{"swift", "/logs/Swift.csv", nil},
		{"ACT", "/logs/activa.csv", nil},
		{"old", "/logs/swift-old.csv", nil},
		{"i", "", ErrAmbiguousVehicle},
		{"", "", ErrAmbiguousVehicle},
		{"wagonr", "", ErrNoVehicle},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := ResolveVehicle(files, tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Path)
		})
	}

	only, err := ResolveVehicle(files[2:], "")
	require.NoError(t, err)
	assert.Equal(t, "activa", only.Vehicle)

	_, err = ResolveVehicle(nil, "")
	assert.ErrorIs(t, err, ErrNoVehicle)
}
