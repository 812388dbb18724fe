package report

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
    :root {
        --pass-color: #4CAF50;
        --fail-color: #F44336;
        --info-color: #2196F3;
        --warning-color: #FFC107;
        --card-shadow: 0 4px 8px rgba(0,0,0,0.1);
    }

    body {
        font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
        line-height: 1.6;
        color: #333;
        max-width: 1200px;
        margin: 0 auto;
        padding: 20px;
        background-color: #f5f7fa;
    }

    .test-case {
        background: white;
        border-radius: 8px;
        margin-bottom: 20px;
        overflow: hidden;
        box-shadow: var(--card-shadow);
        border-left: 4px solid var(--pass-color);
    }

    .test-case.failed {
        border-left-color: var(--fail-color);
    }

    .test-header {
        padding: 15px 20px;
        display: flex;
        justify-content: space-between;
        align-items: center;
        background-color: #f9f9f9;
        border-bottom: 1px solid #eee;
    }

    .test-id {
        font-weight: bold;
        font-size: 1.1rem;
    }

    .status-badge {
        padding: 5px 12px;
        border-radius: 20px;
        font-weight: bold;
        font-size: 0.85rem;
        text-transform: uppercase;
    }

    .status-pass { background-color: var(--pass-color); color: white; }
    .status-fail { background-color: var(--fail-color); color: white; }

    .test-content {
        padding: 0 20px;
        max-height: 2000px;
        overflow: hidden;
        transition: max-height 0.3s ease, padding 0.3s ease;
    }

    .metadata-grid {
        display: grid;
        grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
        gap: 15px;
        margin-bottom: 20px;
        background-color: #f8f9fa;
        padding: 15px;
        border-radius: 6px;
    }

    .metadata-item strong {
        display: block;
        color: #666;
        font-size: 0.85rem;
        margin-bottom: 5px;
    }

    .steps-table {
        width: 100%;
        border-collapse: collapse;
        margin: 20px 0;
    }

    .steps-table th, .steps-table td {
        padding: 12px 15px;
        text-align: left;
        border-bottom: 1px solid #eee;
    }

    .steps-table th {
        background-color: #f1f8ff;
        font-weight: 600;
    }

    .error-section {
        background-color: #fff8f8;
        border-left: 4px solid var(--fail-color);
        padding: 15px;
        border-radius: 0 6px 6px 0;
        margin-top: 20px;
        font-family: monospace;
        white-space: pre-wrap;
        overflow-x: auto;
    }

    .env-tag {
        display: inline-block;
        background: #e0f7fa;
        color: #006064;
        padding: 3px 8px;
        border-radius: 4px;
        font-size: 0.8rem;
        margin-right: 5px;
    }
</style>
</head>
<body>
{{- range .Cases}}
<div class="test-case{{if .Failed}} failed{{end}}">
    <div class="test-header">
        <div>
            <div class="test-id">{{.TestID}}</div>
            <div><strong>Description: </strong>{{.Description}}</div>
        </div>
        <div class="status-badge {{if .Passed}}status-pass{{else}}status-fail{{end}}">{{.Status}}</div>
    </div>
    <div class="test-content">
        <div class="metadata-grid">
            <div class="metadata-item"><strong>Run ID</strong>{{.RunID}}</div>
            <div class="metadata-item"><strong>Severity</strong>{{.Severity}}</div>
            <div class="metadata-item"><strong>Owner</strong>{{.Owner}}</div>
            <div class="metadata-item"><strong>Environment</strong>{{range .Env}}<span class="env-tag">{{.}}</span>{{end}}</div>
        </div>
        <h3>Execution Steps</h3>
        <table class="steps-table">
            <thead>
                <tr><th>Step #</th><th>Description</th><th>Status</th></tr>
            </thead>
            <tbody>
            {{- range .Steps}}
                <tr>
                    <td>{{.Number}}</td>
                    <td>{{.Description}}</td>
                    <td><span class="{{if .Finished}}status-pass{{else}}status-fail{{end}}">{{.State}}</span></td>
                </tr>
            {{- end}}
            </tbody>
        </table>
        {{- with .Error}}
        <div class="error-section"><strong>Error Message:</strong>
{{.Message}}
<hr><strong>Stack Trace:</strong><pre>{{.Stacktrace}}</pre>
        </div>
        {{- end}}
    </div>
</div>
{{- end}}
</body>
</html>
`
