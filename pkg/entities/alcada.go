package entities

import (
	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

var alcadaMap = fieldmap.MustNew(
	fieldmap.Field{FormKey: "DATA_NEG", Column: "DATA_NEG", Type: fieldmap.TypeDate},
	fieldmap.Field{FormKey: "SEGMENTO", Column: "SEGMENTO"},
	fieldmap.Field{FormKey: "CLIENTE", Column: "CLIENTE"},
	fieldmap.Field{FormKey: "CNPJ", Column: "CNPJ"},
	fieldmap.Field{FormKey: "AGENCIA", Column: "AGENCIA"},
	fieldmap.Field{FormKey: "CONTA", Column: "CONTA"},
	fieldmap.Field{FormKey: "TARIFA", Column: "TARIFA"},
	fieldmap.Field{FormKey: "VALOR_MAJORADO", Column: "VALOR_MAJORADO", Type: fieldmap.TypeCurrency},
	fieldmap.Field{FormKey: "VALOR_REQUERIDO", Column: "VALOR_REQUERIDO", Type: fieldmap.TypeCurrency},
	fieldmap.Field{FormKey: "AUTORIZACAO", Column: "AUTORIZACAO"},
	fieldmap.Field{FormKey: "QTDE", Column: "QTDE", Type: fieldmap.TypeInteger},
	fieldmap.Field{FormKey: "PRAZO", Column: "PRAZO", Type: fieldmap.TypeInteger},
	fieldmap.Field{FormKey: "VENCIMENTO", Column: "VENCIMENTO", Type: fieldmap.TypeDate},
	fieldmap.Field{FormKey: "OBSERVACAO", Column: "OBSERVACAO", Type: fieldmap.TypeFreeText},
)

// Alcada is a tariff negotiated above the branch's authority limit.
var Alcada = Entity{
	Name:       "alcada",
	Title:      "Alçada Superior",
	Table:      "alcada_sup",
	PrimaryKey: "Id",
	DateColumn: "DATA_NEG",
	Mapping:    alcadaMap,

	RecentProjection: []query.Projection{
		text("AUTORIZACAO", "responsavel"),
		dateOrNow("DATA_NEG", "data"),
		text("CLIENTE", "cliente"),
		text("CNPJ", "cnpj"),
		text("AGENCIA", "ag"),
		text("TARIFA", "tarifa"),
	},
	RecentOrder: []query.Order{{Column: "DATA_NEG", Desc: true}},

	Profiles: []Profile{
		{
			Name: ProfileSearch,
			Projection: []query.Projection{
				text("CLIENTE", "cliente"),
				text("CNPJ", "cnpj"),
				text("AGENCIA", "ag"),
				text("CONTA", "conta"),
				text("TARIFA", "tarifa"),
			},
			Criteria: registerCriteria("AGENCIA", "CONTA", "CLIENTE", "TARIFA"),
		},
		{
			Name:       ProfileCadastro,
			Projection: fullProjection("Id", alcadaMap),
			Criteria:   registerCriteria("AGENCIA", "CONTA", "CLIENTE", "TARIFA"),
		},
		{
			Name:       ProfileConsulta,
			Projection: fullProjection("Id", alcadaMap),
			Criteria: append([]Criterion{
				contains("seg", "SEGMENTO"),
				contains("cli", "CLIENTE"),
				{Name: "cnpj", Column: "CNPJ", Match: MatchExact, Normalize: query.Digits},
				{Name: "ag", Column: "AGENCIA", Match: MatchPrefix},
			}, period("DATA_NEG")...),
		},
	},
}

func init() {
	register(Alcada)
}
