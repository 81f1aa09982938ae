package highlight

const pageHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body {
    margin: 0;
    padding: 0;
    background-color: #1e1e1e;
}
.code-container {
    background-color: #1e1e1e;
    padding: 16px;
    border-radius: 8px;
    font-family: 'Consolas', 'Monaco', 'Courier New', monospace;
    font-size: 14px;
    overflow-x: auto;
}
.code-container table {
    border-collapse: collapse;
}
.code-container td {
    padding: 0;
    vertical-align: top;
}
.code-container td:first-child pre {
    padding-right: 10px;
    color: #858585;
    border-right: 1px solid #404040;
    margin-right: 10px;
}
.code-container pre {
    margin: 0;
    white-space: pre;
}
</style>
</head>
<body>
<div class="code-container">
`

const pageTail = `</div>
</body>
</html>
`
