package entities

import (
	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
)

var multasMap = fieldmap.MustNew(
	fieldmap.Field{FormKey: "DATA_NEG", Column: "DATA_NEG", Type: fieldmap.TypeDate},
	fieldmap.Field{FormKey: "SEGMENTO", Column: "SEGMENTO"},
	fieldmap.Field{FormKey: "CLIENTE", Column: "CLIENTE"},
	fieldmap.Field{FormKey: "CNPJ", Column: "CNPJ"},
	fieldmap.Field{FormKey: "AGENCIA", Column: "AGENCIA"},
	fieldmap.Field{FormKey: "CONTA", Column: "CONTA"},
	fieldmap.Field{FormKey: "TARIFA", Column: "TARIFA"},
	fieldmap.Field{FormKey: "VALOR_TARIFA", Column: "VALOR_TARIFA", Type: fieldmap.TypeCurrency},
	fieldmap.Field{FormKey: "VALOR_AUTORIZADO", Column: "VALOR_AUTORIZADO", Type: fieldmap.TypeCurrency},
	fieldmap.Field{FormKey: "AUTORIZAÇÃO", Column: "AUTORIZACAO"},
	fieldmap.Field{FormKey: "QTDE", Column: "QTDE", Type: fieldmap.TypeInteger},
	fieldmap.Field{FormKey: "PRAZO", Column: "PRAZO", Type: fieldmap.TypeInteger},
	fieldmap.Field{FormKey: "NEG_ESP", Column: "NEG_ESP", Type: fieldmap.TypeFlag},
	fieldmap.Field{FormKey: "PRAZO_SGN", Column: "PRAZO_SGN"},
	fieldmap.Field{FormKey: "VENCIMENTO", Column: "VENCIMENTO", Type: fieldmap.TypeDate},
	fieldmap.Field{FormKey: "OBSERVAÇÃO", Column: "OBSERVACAO", Type: fieldmap.TypeFreeText},
	fieldmap.Field{FormKey: "ATUADO_SCT", Column: "ATUADO_SCT", Type: fieldmap.TypeFlag},
	fieldmap.Field{FormKey: "MOTIVO", Column: "MOTIVO"},
	fieldmap.Field{FormKey: "ATUACAO", Column: "ATUACAO"},
	fieldmap.Field{FormKey: "USUARIO", Column: "USUARIO"},
	fieldmap.Field{FormKey: "STATUS", Column: "STATUS"},
	fieldmap.Field{FormKey: "NM_AG", Column: "NM_AG"},
)

// Multas covers penalty and commission waivers.
var Multas = Entity{
	Name:       "multas",
	Title:      "Multas e Comissões",
	Table:      "Multas",
	PrimaryKey: "Id",
	DateColumn: "DATA_NEG",
	Mapping:    multasMap,

	RecentProjection: []query.Projection{
		text("USUARIO", "usuario"),
		dateOrNow("DATA_NEG", "data"),
		text("CLIENTE", "cliente"),
		text("SEGMENTO", "segmento"),
		text("CNPJ", "cnpj"),
	},
	RecentOrder: []query.Order{{Column: "DATA_NEG", Desc: true}},

	Profiles: []Profile{
		{
			Name: ProfileSearch,
			Projection: []query.Projection{
				text("CLIENTE", "Cliente"),
				text("CNPJ", "CNPJ"),
				text("SEGMENTO", "Segmento"),
			},
			Criteria: []Criterion{
				exact("seg", "SEGMENTO"),
				contains("cli", "CLIENTE"),
				contains("cnpj", "CNPJ"),
			},
		},
		{
			Name:       ProfileCadastro,
			Projection: fullProjection("Id", multasMap),
			Criteria:   registerCriteria("AGENCIA", "CONTA", "CLIENTE", "TARIFA"),
		},
		{
			Name:       ProfileConsulta,
			Projection: fullProjection("Id", multasMap),
			Criteria: append([]Criterion{
				contains("seg", "SEGMENTO"),
				contains("cli", "CLIENTE"),
				exact("cnpj", "CNPJ"),
			}, period("DATA_NEG")...),
		},
	},
}

func init() {
	register(Multas)
}
