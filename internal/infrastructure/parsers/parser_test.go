package parsers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kinship/internal/domain/entities"
)

func TestJSONParser_Parse(t *testing.T) {
	t.Run("full snapshot", func(t *testing.T) {
		input := `{
			"persons": [{
				"id": "p1",
				"firstName": "Ada",
				"lastName": "Lovelace",
				"birthDate": "1815-12-10",
				"deathDate": null,
				"generation": 1,
				"positionX": 10.5,
				"createdAt": "t0",
				"updatedAt": "t0"
			}],
			"relationships": [{
				"id": "r1",
				"fromPersonId": "p1",
				"toPersonId": "p2",
				"type": "spouse",
				"spouseType": "married",
				"marriageNumber": 1,
				"color": "#ec4899",
				"createdAt": "t0",
				"updatedAt": "t0"
			}]
		}`

		snap, err := (&JSONParser{}).Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, snap.Persons, 1)
		require.Len(t, snap.Relationships, 1)

		p := snap.Persons[0]
		assert.Equal(t, "Ada", p.FirstName)
		assert.Equal(t, "1815-12-10", *p.BirthDate)
		assert.Nil(t, p.DeathDate)
		assert.Equal(t, 1, p.Generation)
		assert.Equal(t, 10.5, *p.PositionX)
		assert.Nil(t, p.PositionY)

		r := snap.Relationships[0]
		assert.Equal(t, entities.RelationSpouse, r.Type)
		assert.Equal(t, entities.SpouseMarried, *r.SpouseType)
		assert.Equal(t, 1, *r.MarriageNumber)
	})

	t.Run("missing lists are empty", func(t *testing.T) {
		snap, err := (&JSONParser{}).Parse(strings.NewReader(`{"persons": null}`))
		require.NoError(t, err)
		assert.NotNil(t, snap.Persons)
		assert.NotNil(t, snap.Relationships)
		assert.Empty(t, snap.Persons)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := (&JSONParser{}).Parse(strings.NewReader(`[not json`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing JSON")
	})
}

func TestCSVParser_Parse(t *testing.T) {
	t.Run("all columns", func(t *testing.T) {
		input := "id,first_name,last_name,birth_date,death_date,photo,generation,position_x,position_y,created_at,updated_at\n" +
			"p1,Ada,Lovelace,1815-12-10,1852-11-27,ada.png,1,10.5,-3,t0,t1\n"

		snap, err := (&CSVParser{}).Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, snap.Persons, 1)
		assert.Empty(t, snap.Relationships)

		assert.Equal(t, entities.Person{
			ID:         "p1",
			FirstName:  "Ada",
			LastName:   "Lovelace",
			BirthDate:  entities.Ptr("1815-12-10"),
			DeathDate:  entities.Ptr("1852-11-27"),
			Photo:      entities.Ptr("ada.png"),
			Generation: 1,
			PositionX:  entities.Ptr(10.5),
			PositionY:  entities.Ptr(-3.0),
			CreatedAt:  "t0",
			UpdatedAt:  "t1",
		}, snap.Persons[0])
	})

	t.Run("minimal columns in any order", func(t *testing.T) {
		input := "Last_Name, First_Name\nBabbage, Charles\nSomerville,Mary\n"

		snap, err := (&CSVParser{}).Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, snap.Persons, 2)
		assert.Equal(t, "Charles", snap.Persons[0].FirstName)
		assert.Equal(t, "Babbage", snap.Persons[0].LastName)
		assert.Empty(t, snap.Persons[0].ID)
		assert.Nil(t, snap.Persons[0].BirthDate)
	})

	t.Run("missing required column", func(t *testing.T) {
		_, err := (&CSVParser{}).Parse(strings.NewReader("first_name\nAda\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "last_name")
	})

	t.Run("bad number reports line", func(t *testing.T) {
		input := "first_name,last_name,generation\nAda,Lovelace,1\nCharles,Babbage,two\n"
		_, err := (&CSVParser{}).Parse(strings.NewReader(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 3")
		assert.Contains(t, err.Error(), "generation")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := (&CSVParser{}).Parse(strings.NewReader(""))
		require.Error(t, err)
	})
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	persons := []entities.Person{
		{
			ID: "p1", FirstName: "Ada", LastName: "Lovelace, Countess",
			BirthDate: entities.Ptr("1815-12-10"), Generation: 2,
			PositionX: entities.Ptr(1.25), CreatedAt: "t0", UpdatedAt: "t0",
		},
		{ID: "p2", FirstName: "Charles", LastName: "Babbage", CreatedAt: "t0", UpdatedAt: "t0"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, persons))
	assert.True(t, strings.HasPrefix(buf.String(), strings.Join(CSVColumns, ",")+"\n"))

	snap, err := (&CSVParser{}).Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, persons, snap.Persons)
}

func TestGEDCOMParser_Parse(t *testing.T) {
	input := "0 HEAD\n0 @I1@ INDI\n1 NAME Ada /Lovelace/\n1 NOTE @p1@\n0 TRLR\n"

	snap, err := (&GEDCOMParser{}).Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, snap.Persons, 1)
	assert.Equal(t, "p1", snap.Persons[0].ID)
	assert.Empty(t, snap.Relationships)
}

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFormat("json"))
	assert.IsType(t, &JSONParser{}, ForFormat("JSON"))
	assert.IsType(t, &CSVParser{}, ForFormat("csv"))
	assert.IsType(t, &GEDCOMParser{}, ForFormat("gedcom"))
	assert.Nil(t, ForFormat("xml"))
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		expected Parser
	}{
		{"tree.json", &JSONParser{}},
		{"people.CSV", &CSVParser{}},
		{"family.ged", &GEDCOMParser{}},
		{"family.gedcom", &GEDCOMParser{}},
		{"notes.txt", nil},
		{"noext", nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, ForFile(tt.filename))
		})
	}
}
