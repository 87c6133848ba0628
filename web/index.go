package web

const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>gbplay status</title>
<style>
body { font-family: monospace; background: #202225; color: #dcddde; margin: 2em; }
h1 { font-size: 1.2em; }
table { border-collapse: collapse; }
td, th { border: 1px solid #444; padding: 4px 10px; text-align: left; }
img { image-rendering: pixelated; border: 1px solid #444; margin-top: 1em; }
.running { color: #2ecc71; }
.stopped { color: #e74c3c; }
</style>
</head>
<body>
<h1>gbplay status</h1>
<table id="defs"><tr><th>game</th><th>state</th><th>auto</th><th>started</th></tr></table>
<div id="shots"></div>
<script>
function render(vm) {
  var t = document.getElementById("defs");
  t.innerHTML = "<tr><th>game</th><th>state</th><th>auto</th><th>started</th></tr>";
  var shots = document.getElementById("shots");
  shots.innerHTML = "";
  (vm.definitions || []).forEach(function (d) {
    var tr = document.createElement("tr");
    tr.innerHTML = "<td>" + d.name + "</td>" +
      "<td class='" + (d.running ? "running'>running" : "stopped'>stopped") + "</td>" +
      "<td>" + (d.autoStart ? "yes" : "no") + "</td>" +
      "<td>" + (d.running ? d.startedAt : "") + "</td>";
    t.appendChild(tr);
    if (d.running) {
      var img = document.createElement("img");
      img.src = "/screenshot/" + d.name + ".gif?t=" + Date.now();
      img.title = d.name;
      shots.appendChild(img);
    }
  });
}
function connect() {
  var ws = new WebSocket("ws://" + location.host + "/ws/");
  ws.onmessage = function (ev) {
    var u = JSON.parse(ev.data);
    if (u.v === "status") render(u.m);
  };
  ws.onclose = function () { setTimeout(connect, 2000); };
}
connect();
</script>
</body>
</html>
`
