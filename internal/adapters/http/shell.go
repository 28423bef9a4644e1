package web

import "net/http"

// handleShell serves the single page that hosts every view. The page
// carries the nav, the dialogs, and the script that drives hash
// navigation against /views/{token}.
//
// The page script sends every API call with a JSON content type.
// That content type is the cross-site write boundary: browsers cannot
// send it cross-origin without a CORS preflight, and non-JSON writes
// still have to pass the token check in the middleware.
func handleShell(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(shellHTML))
}

const shellHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Dog Registry</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 0; background: #f6f6f4; color: #222; }
  header { display: flex; align-items: center; gap: 1rem; padding: .75rem 1.5rem; background: #2d3b2d; color: #fff; }
  header a { color: #fff; text-decoration: none; }
  header .spacer { flex: 1; }
  main { max-width: 720px; margin: 1.5rem auto; padding: 0 1rem; }
  .card-item { background: #fff; border: 1px solid #ddd; border-radius: 6px; padding: 1rem; margin-bottom: .75rem; }
  .card-item h3 { margin: 0 0 .25rem; }
  .card-meta { color: #555; font-size: .9rem; }
  .muted { color: #777; }
  .hidden { display: none; }
  .msg { padding: .5rem .75rem; border-radius: 4px; margin: .5rem 0; }
  .msg.error { background: #fbe9e9; color: #8a1f1f; }
  .msg.ok { background: #e9f6ec; color: #1f5e2d; }
  dialog { border: 1px solid #ccc; border-radius: 8px; padding: 1.25rem; min-width: 320px; }
  form label { display: block; margin: .5rem 0 .15rem; font-size: .9rem; }
  form input, form select, form textarea { width: 100%; box-sizing: border-box; padding: .4rem; }
  button { cursor: pointer; padding: .4rem .9rem; }
  #announcements article { background: #fffbe8; border: 1px solid #e8dfb0; border-radius: 6px; padding: .75rem 1rem; margin-bottom: .75rem; }
</style>
</head>
<body>
<header>
  <strong>Dog Registry</strong>
  <a href="#/">Home</a>
  <a href="#/catalog">Catalog</a>
  <a href="#/admin" id="nav-admin" class="hidden">Admin</a>
  <span class="spacer"></span>
  <span id="who" class="hidden"></span>
  <button id="btn-login">Sign in</button>
  <button id="btn-register">Register</button>
  <button id="btn-new-record" class="hidden">New record</button>
  <button id="btn-logout" class="hidden">Sign out</button>
</header>
<main>
  <div id="flash"></div>
  <section id="announcements"></section>
  <section id="view"></section>
</main>

<dialog id="dlg-login">
  <h2>Sign in</h2>
  <form id="form-login">
    <label>Username or email</label>
    <input name="user" required>
    <label>Password</label>
    <input name="password" type="password" required>
    <p><button type="submit">Sign in</button> <button type="button" data-close>Cancel</button></p>
  </form>
</dialog>

<dialog id="dlg-register">
  <h2>Register</h2>
  <form id="form-register">
    <label>Display name</label>
    <input name="display_name">
    <label>Username</label>
    <input name="username" required>
    <label>Email</label>
    <input name="email" type="email" required>
    <label>Password</label>
    <input name="password" type="password" required minlength="8">
    <p><button type="submit">Create account</button> <button type="button" data-close>Cancel</button></p>
  </form>
</dialog>

<dialog id="dlg-record">
  <h2>New record</h2>
  <form id="form-record">
    <label>Name</label>
    <input name="name" required>
    <label>Sex</label>
    <select name="sex">
      <option value="male">male</option>
      <option value="female">female</option>
    </select>
    <label>Date of birth</label>
    <input name="date_of_birth" type="date">
    <label>Color</label>
    <input name="color">
    <label>Microchip number</label>
    <input name="microchip_number">
    <label>Pedigree number</label>
    <input name="pedigree_number">
    <label>Notes</label>
    <textarea name="notes" rows="3"></textarea>
    <p><button type="submit">Submit for review</button> <button type="button" data-close>Cancel</button></p>
  </form>
</dialog>

<script>
(function () {
  "use strict";

  var viewEl = document.getElementById("view");
  var flashEl = document.getElementById("flash");

  function flash(kind, text) {
    flashEl.innerHTML = "";
    if (!text) return;
    var div = document.createElement("div");
    div.className = "msg " + kind;
    div.textContent = text;
    flashEl.appendChild(div);
  }

  function api(method, path, body) {
    return fetch(path, {
      method: method,
      headers: { "Content-Type": "application/json" },
      body: body === undefined ? undefined : JSON.stringify(body)
    }).then(function (res) {
      if (res.status === 204) return null;
      return res.json().then(function (data) {
        if (!res.ok) throw new Error(data.error || "request failed");
        return data;
      });
    });
  }

  function currentToken() {
    var h = location.hash.replace(/^#/, "");
    return h || "/";
  }

  function navigate() {
    api("GET", "/views" + currentToken()).then(function (page) {
      if (page === null) return; // superseded
      viewEl.innerHTML = page.html;
      if (page.redirected) location.hash = "#/";
    }).catch(function (err) {
      flash("error", err.message);
    });
  }

  function refreshSession() {
    return api("GET", "/api/session").then(function (s) {
      var signedIn = s.signedIn;
      document.getElementById("btn-login").classList.toggle("hidden", signedIn);
      document.getElementById("btn-register").classList.toggle("hidden", signedIn);
      document.getElementById("btn-logout").classList.toggle("hidden", !signedIn);
      document.getElementById("btn-new-record").classList.toggle("hidden", !signedIn);
      document.getElementById("nav-admin").classList.toggle("hidden", !(signedIn && s.admin));
      var who = document.getElementById("who");
      who.classList.toggle("hidden", !signedIn);
      who.textContent = signedIn ? s.label : "";
    });
  }

  function loadAnnouncements() {
    api("GET", "/api/announcements").then(function (items) {
      var host = document.getElementById("announcements");
      host.innerHTML = "";
      items.forEach(function (a) {
        var art = document.createElement("article");
        var h = document.createElement("h3");
        h.textContent = a.title;
        art.appendChild(h);
        var body = document.createElement("div");
        body.innerHTML = a.html;
        art.appendChild(body);
        host.appendChild(art);
      });
    }).catch(function () { /* announcements are decorative */ });
  }

  // Dialog plumbing
  ["dlg-login", "dlg-register", "dlg-record"].forEach(function (id) {
    var dlg = document.getElementById(id);
    dlg.querySelectorAll("[data-close]").forEach(function (btn) {
      btn.addEventListener("click", function () { dlg.close(); });
    });
  });
  document.getElementById("btn-login").addEventListener("click", function () {
    document.getElementById("dlg-login").showModal();
  });
  document.getElementById("btn-register").addEventListener("click", function () {
    document.getElementById("dlg-register").showModal();
  });
  document.getElementById("btn-new-record").addEventListener("click", function () {
    document.getElementById("dlg-record").showModal();
  });
  document.getElementById("btn-logout").addEventListener("click", function () {
    api("POST", "/api/logout").then(function () {
      return refreshSession();
    }).then(navigate);
  });

  document.getElementById("form-login").addEventListener("submit", function (e) {
    e.preventDefault();
    var f = new FormData(e.target);
    api("POST", "/api/login", { user: f.get("user"), password: f.get("password") })
      .then(function () {
        document.getElementById("dlg-login").close();
        e.target.reset();
        flash("ok", "Signed in.");
        return refreshSession();
      })
      .then(navigate)
      .catch(function (err) { flash("error", err.message); });
  });

  document.getElementById("form-register").addEventListener("submit", function (e) {
    e.preventDefault();
    var f = new FormData(e.target);
    api("POST", "/api/register", {
      display_name: f.get("display_name"),
      username: f.get("username"),
      email: f.get("email"),
      password: f.get("password")
    }).then(function (data) {
      document.getElementById("dlg-register").close();
      e.target.reset();
      flash("ok", data.message);
    }).catch(function (err) { flash("error", err.message); });
  });

  document.getElementById("form-record").addEventListener("submit", function (e) {
    e.preventDefault();
    var f = new FormData(e.target);
    api("POST", "/api/records", {
      name: f.get("name"),
      sex: f.get("sex"),
      date_of_birth: f.get("date_of_birth"),
      color: f.get("color"),
      microchip_number: f.get("microchip_number"),
      pedigree_number: f.get("pedigree_number"),
      notes: f.get("notes")
    }).then(function (data) {
      document.getElementById("dlg-record").close();
      e.target.reset();
      flash("ok", data.message);
    }).catch(function (err) { flash("error", err.message); });
  });

  // Approve/reject buttons live inside rendered fragments, so the
  // listener is delegated from the view container.
  viewEl.addEventListener("click", function (e) {
    var btn = e.target.closest("button[data-id]");
    if (!btn) return;
    var action = btn.hasAttribute("data-approve") ? "approve" : btn.hasAttribute("data-reject") ? "reject" : "";
    if (!action) return;
    api("POST", "/api/admin/records/" + encodeURIComponent(btn.getAttribute("data-id")) + "/" + action)
      .then(function (data) { viewEl.innerHTML = data.html; })
      .catch(function (err) { flash("error", err.message); });
  });

  window.addEventListener("hashchange", navigate);

  refreshSession().then(function () {
    loadAnnouncements();
    navigate();
  });
})();
</script>
</body>
</html>
`
