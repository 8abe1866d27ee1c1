package entities

import (
	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

var pacoteMap = fieldmap.MustNew(
	fieldmap.Field{FormKey: "DATA_NEG", Column: "DATA_NEG", Type: fieldmap.TypeDate},
	fieldmap.Field{FormKey: "SEGMENTO", Column: "SEGMENTO"},
	fieldmap.Field{FormKey: "CLIENTE", Column: "CLIENTE"},
	fieldmap.Field{FormKey: "CNPJ", Column: "CNPJ"},
	fieldmap.Field{FormKey: "PACOTE", Column: "PACOTE"},
	fieldmap.Field{FormKey: "AGENCIA", Column: "AGENCIA"},
	fieldmap.Field{FormKey: "CONTA", Column: "CONTA"},
	fieldmap.Field{FormKey: "PRAZO", Column: "PRAZO", Type: fieldmap.TypeInteger},
	fieldmap.Field{FormKey: "DATA_REV", Column: "DATA_REV", Type: fieldmap.TypeDate},
	fieldmap.Field{FormKey: "MOTIVO", Column: "MOTIVO"},
	fieldmap.Field{FormKey: "OBS", Column: "OBS", Type: fieldmap.TypeFreeText},
)

// Pacote is a negotiated fee package. The recent list is ordered by when the
// row was registered, not by the negotiation date.
var Pacote = Entity{
	Name:       "pacote",
	Title:      "Pacotes de Tarifas",
	Table:      "Pacotes",
	PrimaryKey: "Id",
	DateColumn: "DATA_NEG",
	Mapping:    pacoteMap,
	Stamps:     []string{"DT_ATUACAO"},

	RecentProjection: []query.Projection{
		dateOrNow("DATA_NEG", "data"),
		text("CLIENTE", "cliente"),
		text("SEGMENTO", "segmento"),
		text("CNPJ", "cnpj"),
		text("AGENCIA", "ag"),
		text("CONTA", "conta"),
	},
	RecentOrder: []query.Order{{Column: "DT_ATUACAO", Desc: true}},

	Profiles: []Profile{
		{
			Name: ProfileSearch,
			Projection: []query.Projection{
				text("CLIENTE", "cliente"),
				text("CNPJ", "cnpj"),
				text("AGENCIA", "ag"),
				text("CONTA", "conta"),
				text("SEGMENTO", "segmento"),
			},
			Criteria: []Criterion{
				exact("ag", "AGENCIA"),
				exact("cc", "CONTA"),
				contains("cli", "CLIENTE"),
				exact("seg", "SEGMENTO"),
			},
		},
		{
			Name:       ProfileCadastro,
			Projection: fullProjection("Id", pacoteMap),
			Criteria: []Criterion{
				exact("ag", "AGENCIA"),
				exact("cc", "CONTA"),
				contains("cli", "CLIENTE"),
				exact("pac", "PACOTE"),
			},
		},
		{
			Name:       ProfileConsulta,
			Projection: fullProjection("Id", pacoteMap),
			Criteria: append([]Criterion{
				exact("seg", "SEGMENTO"),
				contains("cli", "CLIENTE"),
				exact("cnpj", "CNPJ"),
				exact("ag", "AGENCIA"),
			}, period("DATA_NEG")...),
		},
	},
}

func init() {
	register(Pacote)
}
