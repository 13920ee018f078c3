package notification

import (
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
)

// Render substitutes template variables into the text. Both the {{var}} and
// {var} placeholder styles are accepted since templates come from more than
// one source. A placeholder with no matching variable renders its raw key;
// rendering never fails.
func Render(template string, variables map[string]string) string {
	var out strings.Builder
	out.Grow(len(template))

	for {
		start := strings.IndexByte(template, '{')
		if start < 0 {
			out.WriteString(template)
			return out.String()
		}

		out.WriteString(template[:start])
		template = template[start:]

		double := strings.HasPrefix(template, "{{")
		closer := "}"
		opener := 1
		if double {
			closer = "}}"
			opener = 2
		}

		end := strings.Index(template[opener:], closer)
		if end < 0 {
			out.WriteString(template)
			return out.String()
		}

		key := template[opener : opener+end]
		template = template[opener+end+len(closer):]

		if value, ok := variables[key]; ok {
			out.WriteString(value)
		} else {
			out.WriteString(key)
		}
	}
}

// templates is the built-in message catalog, keyed by template id and
// language. English is the fallback when a language entry is missing.
var templates = map[string]map[kernel.Language]string{
	"order.confirmed": {
		kernel.LanguageEN:   "Your order {{externalOrderId}} was confirmed and sent for fulfillment.",
		kernel.LanguagePTBR: "Seu pedido {{externalOrderId}} foi confirmado e enviado para processamento.",
		kernel.LanguageES:   "Tu pedido {{externalOrderId}} fue confirmado y enviado para su preparación.",
		kernel.LanguageZHCN: "您的订单 {{externalOrderId}} 已确认并进入处理流程。",
	},
	"order.processing": {
		kernel.LanguageEN:   "Order {{externalOrderId}} is being prepared by the supplier.",
		kernel.LanguagePTBR: "O pedido {{externalOrderId}} está sendo preparado pelo fornecedor.",
		kernel.LanguageES:   "El pedido {{externalOrderId}} está siendo preparado por el proveedor.",
		kernel.LanguageZHCN: "订单 {{externalOrderId}} 正在由供应商备货。",
	},
	"order.shipped": {
		kernel.LanguageEN:   "Order {{externalOrderId}} shipped via {{carrier}}. Tracking code: {{trackingCode}}.",
		kernel.LanguagePTBR: "O pedido {{externalOrderId}} foi enviado pela {{carrier}}. Código de rastreio: {{trackingCode}}.",
		kernel.LanguageES:   "El pedido {{externalOrderId}} fue enviado por {{carrier}}. Código de seguimiento: {{trackingCode}}.",
		kernel.LanguageZHCN: "订单 {{externalOrderId}} 已由 {{carrier}} 发货。追踪号:{{trackingCode}}。",
	},
	"order.delivered": {
		kernel.LanguageEN:   "Order {{externalOrderId}} was delivered. Thank you for shopping with us!",
		kernel.LanguagePTBR: "O pedido {{externalOrderId}} foi entregue. Obrigado pela sua compra!",
		kernel.LanguageES:   "El pedido {{externalOrderId}} fue entregado. ¡Gracias por tu compra!",
		kernel.LanguageZHCN: "订单 {{externalOrderId}} 已送达。感谢您的惠顾!",
	},
	"order.cancelled": {
		kernel.LanguageEN:   "Order {{externalOrderId}} was cancelled.",
		kernel.LanguagePTBR: "O pedido {{externalOrderId}} foi cancelado.",
		kernel.LanguageES:   "El pedido {{externalOrderId}} fue cancelado.",
		kernel.LanguageZHCN: "订单 {{externalOrderId}} 已取消。",
	},
	"order.failed": {
		kernel.LanguageEN:   "We hit a problem fulfilling order {{externalOrderId}}. Our team is on it.",
		kernel.LanguagePTBR: "Tivemos um problema com o pedido {{externalOrderId}}. Nossa equipe já está cuidando disso.",
		kernel.LanguageES:   "Tuvimos un problema con el pedido {{externalOrderId}}. Nuestro equipo ya está en ello.",
		kernel.LanguageZHCN: "订单 {{externalOrderId}} 处理时遇到问题,我们的团队正在跟进。",
	},
	"order.delayed": {
		kernel.LanguageEN:   "Order {{externalOrderId}} is taking longer than expected. We are checking with the supplier.",
		kernel.LanguagePTBR: "O pedido {{externalOrderId}} está demorando mais que o esperado. Estamos verificando com o fornecedor.",
		kernel.LanguageES:   "El pedido {{externalOrderId}} está tardando más de lo esperado. Estamos consultando con el proveedor.",
		kernel.LanguageZHCN: "订单 {{externalOrderId}} 的处理时间超出预期,我们正在与供应商确认。",
	},
}

// lookupTemplate returns the catalog text for the template id in the given
// language, falling back to English, then to the id itself so a missing
// template still produces a deliverable message.
func lookupTemplate(templateID string, language kernel.Language) string {
	byLanguage, ok := templates[templateID]
	if !ok {
		return templateID
	}
	if text, ok := byLanguage[language]; ok {
		return text
	}
	if text, ok := byLanguage[kernel.LanguageEN]; ok {
		return text
	}
	return templateID
}
