package invoice

import "html/template"

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A5; margin: 0; }
  * { box-sizing: border-box; margin: 0; padding: 0; }
  body {
    font-family: "Helvetica Neue", Arial, sans-serif;
    font-size: 10pt;
    color: #1a1a1a;
    width: 148mm;
    min-height: 210mm;
    padding: 4mm;
  }
  .content { width: 140mm; margin: 0 auto; }
  .header-image, .footer-image { width: 140mm; display: block; }
  .meta { display: flex; justify-content: space-between; margin: 4mm 0 2mm; }
  .meta .label { font-weight: bold; margin-right: 2mm; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 3mm; }
  th, td { border: 1px solid #444; padding: 1mm 1.5mm; text-align: center; }
  th { background: #efefef; font-weight: bold; }
  .lines td.name { text-align: left; }
  .checklists { display: flex; gap: 4mm; margin-bottom: 3mm; }
  .checklist { flex: 1; }
  .checklist h3 { font-size: 9pt; margin-bottom: 1mm; text-transform: uppercase; }
  .checklist ul { list-style: none; }
  .checklist li { font-size: 8pt; line-height: 1.5; }
  .box { display: inline-block; width: 3mm; height: 3mm; border: 1px solid #444; margin-right: 1.5mm; vertical-align: middle; text-align: center; line-height: 3mm; font-size: 7pt; }
  .total { text-align: right; font-size: 11pt; font-weight: bold; margin: 2mm 0 4mm; }
  .footer-image { margin-top: 4mm; }
</style>
</head>
<body>
<div class="content">
  {{if .HeaderImage}}<img class="header-image" src="{{.HeaderImage}}" alt="">{{end}}

  <div class="meta">
    <div><span class="label">Date:</span>{{.OrderDate.Format "02/01/2006"}}</div>
    <div><span class="label">Client:</span>{{.ClientName}}</div>
  </div>

  <table class="prescription">
    <tr><th></th><th>SPH</th><th>CYL</th><th>AXIS</th><th>ADD</th></tr>
    <tr>
      <th>OD</th>
      <td>{{.RightEye.Sph}}</td><td>{{.RightEye.Cyl}}</td><td>{{.RightEye.Axis}}</td><td>{{.RightEye.Add}}</td>
    </tr>
    <tr>
      <th>OG</th>
      <td>{{.LeftEye.Sph}}</td><td>{{.LeftEye.Cyl}}</td><td>{{.LeftEye.Axis}}</td><td>{{.LeftEye.Add}}</td>
    </tr>
  </table>

  <div class="checklists">
    <div class="checklist">
      <h3>Vision</h3>
      <ul>
        {{range .Vision}}<li><span class="box">{{if .Checked}}&#10003;{{end}}</span>{{.Label}}</li>{{end}}
      </ul>
    </div>
    <div class="checklist">
      <h3>Treatments</h3>
      <ul>
        {{range .Treatments}}<li><span class="box">{{if .Checked}}&#10003;{{end}}</span>{{.Label}}</li>{{end}}
      </ul>
    </div>
  </div>

  <table class="lines">
    <tr><th>Product</th><th>Qty</th><th>Unit price</th><th>Subtotal</th></tr>
    {{range .Lines}}
    <tr>
      <td class="name">{{.ProductName}}</td>
      <td>{{.Quantity}}</td>
      <td>{{.UnitPrice}}</td>
      <td>{{.SubTotal}}</td>
    </tr>
    {{end}}
  </table>

  <div class="total">Total: {{.TotalAmount}}</div>

  {{if .FooterImage}}<img class="footer-image" src="{{.FooterImage}}" alt="">{{end}}
</div>
</body>
</html>`))
