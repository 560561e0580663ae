package mail

import (
	"bytes"
	"html/template"
)

type verifyData struct {
	Heading string
	Body    string
	Button  string
	URL     string
	Footer  string
}

const verifyTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f0;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#2f4f2f">{{.Heading}}</h2>
  <p>{{.Body}}</p>
  <p style="margin-top:24px">
    <a href="{{.URL}}" style="background:#2f6f4f;color:#fff;padding:8px 16px;text-decoration:none;border-radius:4px">{{.Button}}</a>
  </p>
  <p style="color:#999;font-size:12px">{{.Footer}}</p>
</div>
</body>
</html>`

var verify = template.Must(template.New("verify").Parse(verifyTpl))

var copyByLocale = map[string]map[string]verifyData{
	"subscription": {
		"en": {Heading: "Confirm your subscription", Body: "Thanks for subscribing to TahOak Park Collective updates. Please confirm your email address.", Button: "Confirm email", Footer: "If you did not request this, you can ignore this email."},
		"es": {Heading: "Confirma tu suscripción", Body: "Gracias por suscribirte a las novedades de TahOak Park Collective. Confirma tu correo electrónico.", Button: "Confirmar correo", Footer: "Si no solicitaste esto, puedes ignorar este correo."},
	},
	"claim": {
		"en": {Heading: "Confirm your listing claim", Body: "Someone asked to manage this listing on TahOak Park Collective. Confirm to grant access.", Button: "Confirm claim", Footer: "If you did not request this, you can ignore this email."},
		"es": {Heading: "Confirma tu solicitud", Body: "Alguien pidió administrar este listado en TahOak Park Collective. Confirma para otorgar acceso.", Button: "Confirmar solicitud", Footer: "Si no solicitaste esto, puedes ignorar este correo."},
	},
}

// VerificationEmail renders a verification message; unknown locales fall back to English.
func VerificationEmail(kind, locale, to, url string) (Message, error) {
	texts := copyByLocale[kind]
	data, ok := texts[locale]
	if !ok {
		data = texts["en"]
	}
	data.URL = url

	var buf bytes.Buffer
	if err := verify.Execute(&buf, data); err != nil {
		return Message{}, err
	}
	return Message{To: []string{to}, Subject: data.Heading, HTML: buf.String()}, nil
}
