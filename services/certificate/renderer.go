package certificate

import (
	"bytes"
	"html/template"
	"time"
)

// TemplateData carries everything printed on a certificate
type TemplateData struct {
	StudentName       string
	CourseTitle       string
	CertificateNumber string
	Issuer            string
	IssuedAt          time.Time
}

// Renderer turns certificate data into a durable artifact
type Renderer interface {
	Render(data TemplateData) ([]byte, error)
}

const certificateTemplate = `
<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
		.certificate { max-width: 800px; margin: 60px auto; background: #FFFFFF; border: 12px solid #00004D; padding: 60px; text-align: center; }
		.issuer { color: #d7b56d; font-size: 18px; letter-spacing: 3px; text-transform: uppercase; }
		.heading { color: #00004D; font-size: 42px; margin: 30px 0 10px; }
		.student { color: #00004D; font-size: 32px; margin: 30px 0; border-bottom: 2px solid #d7b56d; display: inline-block; padding: 0 40px 10px; }
		.course { color: #333333; font-size: 22px; margin: 20px 0; }
		.meta { margin-top: 50px; font-size: 13px; color: #666666; }
	</style>
</head>
<body>
	<div class="certificate">
		<div class="issuer">{{.Issuer}}</div>
		<h1 class="heading">Certificate of Completion</h1>
		<p>This certifies that</p>
		<div class="student">{{.StudentName}}</div>
		<p class="course">has successfully completed the course<br><strong>{{.CourseTitle}}</strong></p>
		<div class="meta">
			Certificate No: {{.CertificateNumber}}<br>
			Issued on {{.IssuedAt.Format "02 January 2006"}}
		</div>
	</div>
</body>
</html>
`

// HTMLRenderer renders certificates from the built-in HTML template
type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		tmpl: template.Must(template.New("certificate").Parse(certificateTemplate)),
	}
}

func (r *HTMLRenderer) Render(data TemplateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
